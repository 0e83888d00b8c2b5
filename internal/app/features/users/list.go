// internal/app/features/users/list.go
package users

import (
	"net/http"
	"strconv"

	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// List handles GET /users?role=&state=&active=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	filter := userstore.ListFilter{
		Role:   r.URL.Query().Get("role"),
		State:  r.URL.Query().Get("state"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if s := r.URL.Query().Get("active"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			filter.Active = &b
		}
	}

	rows, err := h.Users.List(r.Context(), filter)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list users")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"users": rows})
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeUserStoreError(w, h.Log, "load user", err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
