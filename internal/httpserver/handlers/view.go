package handlers

import (
	"net/http"

	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

// GetView returns the current view model.
func GetView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm, err := d.Controller.ViewModel(r.Context())
		if err != nil {
			fail(w, d.Logger, "view", err)
			return
		}
		writeJSON(w, http.StatusOK, vm)
	}
}

// PostView applies navigation, search and category changes, then returns
// the resulting view model. Nothing changes when any field is invalid.
func PostView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u controller.Update
		if err := decodeJSON(w, r, &u); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := d.Controller.Apply(r.Context(), u); err != nil {
			fail(w, d.Logger, "view", err)
			return
		}
		vm, err := d.Controller.ViewModel(r.Context())
		if err != nil {
			fail(w, d.Logger, "view", err)
			return
		}
		writeJSON(w, http.StatusOK, vm)
	}
}
