package router

import (
	"sync"

	"github.com/EfeIsmail21/live-translation/model"
)

// Router picks the target language for each speaker. The counter side always
// hears the facility language. The driver side hears whatever language the
// driver was last detected speaking, so a clerk's reply comes back in the
// driver's own language without anyone selecting it.
type Router struct {
	mu               sync.Mutex
	facilityLanguage string
	fallback         string
	driverLanguage   string
}

// New builds a router. facilityLanguage is the constant target for driver
// speech; fallback is used for replies to a driver who has not spoken yet.
func New(facilityLanguage, fallback string) *Router {
	return &Router{
		facilityLanguage: facilityLanguage,
		fallback:         fallback,
	}
}

// TargetFor returns the language the given speaker's words must be
// synthesized into.
func (r *Router) TargetFor(role model.Role) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role == model.RoleDriver {
		return r.facilityLanguage
	}
	if r.driverLanguage != "" {
		return r.driverLanguage
	}
	return r.fallback
}

// RecordDetected stores the detected language after a successful turn. Only
// driver detections are tracked; the counter side's language is the facility
// language and is not inferred.
func (r *Router) RecordDetected(role model.Role, language string) {
	if role != model.RoleDriver || language == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.driverLanguage = language
}

// Reset forgets the detected driver language.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.driverLanguage = ""
}
