package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router plain http.ServeMux; every /api/v1 route except login runs behind the session middleware.
type Router struct {
	mux     *http.ServeMux
	session *SessionMiddleware
	logger  *zap.Logger
}

func NewRouter(session *SessionMiddleware, logger *zap.Logger) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		session: session,
		logger:  logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleAuthenticated registers h behind the session middleware.
func (r *Router) HandleAuthenticated(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, r.session.Wrap(h))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterHealthRoutes() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}

func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
	r.HandleAuthenticated("/api/v1/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
	r.HandleAuthenticated("/api/v1/auth/session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Session(w, req)
	})
	// activity is recorded by the middleware itself
	r.HandleAuthenticated("/api/v1/auth/activity", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Session(w, req)
	})
	r.HandleAuthenticated("/api/v1/auth/permissions", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Permissions(w, req)
	})
}

func (r *Router) RegisterUserRoutes(h *UsersHandler) {
	r.HandleAuthenticated("/api/v1/users", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/users/", h.ServeHTTP)
}

func (r *Router) RegisterStickerRoutes(h *StickersHandler) {
	r.HandleAuthenticated("/api/v1/stickers", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/stickers/", h.ServeHTTP)
}

func (r *Router) RegisterViolationRoutes(h *ViolationsHandler) {
	r.HandleAuthenticated("/api/v1/violations", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/violations/", h.ServeHTTP)
}

func (r *Router) RegisterVehicleRoutes(h *VehiclesHandler) {
	r.HandleAuthenticated("/api/v1/vehicles", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/vehicles/", h.ServeHTTP)
}

func (r *Router) RegisterUnitRoutes(h *UnitsHandler) {
	r.HandleAuthenticated("/api/v1/units", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/units/", h.ServeHTTP)
}

func (r *Router) RegisterExportRoutes(h *ExportsHandler) {
	r.HandleAuthenticated("/api/v1/exports/", h.ServeHTTP)
}

func (r *Router) RegisterDataRoutes(h *DataHandler) {
	r.HandleAuthenticated("/api/v1/data/", h.ServeHTTP)
}

func (r *Router) RegisterFormRoutes(h *FormsHandler) {
	r.HandleAuthenticated("/api/v1/forms", h.ServeHTTP)
	r.HandleAuthenticated("/api/v1/forms/", h.ServeHTTP)
}

func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.HandleAuthenticated("/api/v1/dashboard", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Get(w, req)
	})
}

func (r *Router) RegisterReportRoutes(h *ReportsHandler) {
	r.HandleAuthenticated("/api/v1/reports/residential-units", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ResidentialUnits(w, req)
	})
}
