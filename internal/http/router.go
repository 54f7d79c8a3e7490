package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Groups     *GroupHandler
	Calendar   *CalendarHandler
	Rotation   *RotationHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Groups == nil {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Groups.List(w, r)
		case http.MethodPost:
			cfg.Groups.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/groups/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/groups/")
		segments := strings.Split(strings.Trim(rest, "/"), "/")
		if len(segments) == 0 || segments[0] == "" {
			http.NotFound(w, r)
			return
		}

		r = r.WithContext(ContextWithGroupID(r.Context(), segments[0]))

		switch {
		case len(segments) == 1:
			routeGroup(cfg, w, r)
		case len(segments) == 2:
			routeGroupCollection(cfg, w, r, segments[1])
		case len(segments) == 3:
			routeGroupItem(cfg, w, r, segments[1], segments[2])
		default:
			http.NotFound(w, r)
		}
	})

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// routeGroup dispatches /groups/{id}.
func routeGroup(cfg RouterConfig, w http.ResponseWriter, r *http.Request) {
	if cfg.Groups == nil {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cfg.Groups.Get(w, r)
	case http.MethodPut:
		cfg.Groups.Update(w, r)
	case http.MethodDelete:
		cfg.Groups.Delete(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// routeGroupCollection dispatches /groups/{id}/{collection}.
func routeGroupCollection(cfg RouterConfig, w http.ResponseWriter, r *http.Request, collection string) {
	switch collection {
	case "join":
		if cfg.Groups == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		cfg.Groups.Join(w, r)
	case "members":
		if cfg.Groups == nil {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Groups.ListMembers(w, r)
		case http.MethodPost:
			cfg.Groups.AddMember(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case "non-working-days":
		if cfg.Calendar == nil {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Calendar.GetNonWorkingDays(w, r)
		case http.MethodPut:
			cfg.Calendar.PutNonWorkingDays(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut)
		}
	case "events":
		if cfg.Calendar == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.Calendar.ListEvents(w, r)
	case "arrangements":
		if cfg.Rotation == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.Rotation.ListArrangements(w, r)
	case "stats":
		if cfg.Rotation == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.Rotation.Stats(w, r)
	default:
		http.NotFound(w, r)
	}
}

// routeGroupItem dispatches /groups/{id}/{collection}/{item}.
func routeGroupItem(cfg RouterConfig, w http.ResponseWriter, r *http.Request, collection, item string) {
	switch collection {
	case "members":
		if cfg.Groups == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, http.MethodDelete)
			return
		}
		r = r.WithContext(ContextWithMemberID(r.Context(), item))
		cfg.Groups.RemoveMember(w, r)
	case "events":
		if cfg.Calendar == nil {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithDate(r.Context(), item))
		switch r.Method {
		case http.MethodPut:
			cfg.Calendar.PutEvent(w, r)
		case http.MethodDelete:
			cfg.Calendar.DeleteEvent(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}
	case "arrangements":
		if cfg.Rotation == nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		r = r.WithContext(ContextWithDate(r.Context(), item))
		cfg.Rotation.GetArrangement(w, r)
	case "rotation":
		if cfg.Rotation == nil {
			http.NotFound(w, r)
			return
		}
		switch item {
		case "next":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Rotation.Plan(w, r)
		case "commit":
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Rotation.Commit(w, r)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
