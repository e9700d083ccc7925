package ui

import (
	"context"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// choices are the select options of a toggle form.
type choices struct {
	Features     []model.Feature
	Groups       []model.Group
	Products     []model.Product
	Environments []model.Environment
}

func (u *UI) loadChoices(ctx context.Context, withFeatures bool) (choices, error) {
	var c choices
	var err error
	if withFeatures {
		if c.Features, err = u.api.ListFeatures(ctx); err != nil {
			return c, err
		}
	}
	if c.Groups, err = u.api.ListGroups(ctx); err != nil {
		return c, err
	}
	if c.Products, err = u.api.ListProducts(ctx); err != nil {
		return c, err
	}
	if c.Environments, err = u.api.ListEnvironments(ctx); err != nil {
		return c, err
	}
	return c, nil
}

type featureView struct {
	page
	choices
	Feature     model.Feature
	Description template.HTML
	Toggles     []model.Toggle
	Return      string
}

func (u *UI) handleFeatureDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	features, err := u.api.ListFeatures(ctx)
	if err != nil {
		p := newPage(r, "Feature", "features")
		p.Error = u.failure(r, "Failed to fetch features", err)
		u.render(w, r, http.StatusBadGateway, "notfound.html", p)
		return
	}
	var feature *model.Feature
	for i := range features {
		if features[i].ID == id {
			feature = &features[i]
			break
		}
	}
	if feature == nil {
		u.renderNotFound(w, r, "Feature not found")
		return
	}

	view := featureView{
		page:        newPage(r, feature.Name, "features"),
		Feature:     *feature,
		Description: u.markdown.Description(feature.Description),
		Return:      "/ui/features/" + feature.ID,
	}
	status := http.StatusOK
	if view.Toggles, err = u.api.ListToggles(ctx, client.ToggleFilter{FeatureID: id}); err == nil {
		view.choices, err = u.loadChoices(ctx, false)
	}
	if err != nil {
		view.Error = u.failure(r, "Failed to fetch toggles", err)
		status = http.StatusBadGateway
	}
	u.render(w, r, status, "feature.html", view)
}

func (u *UI) handleFeatureToggleCreate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	target := "/ui/features/" + url.PathEscape(id)
	if err := r.ParseForm(); err != nil {
		redirect(w, r, target, "", "Invalid form submission")
		return
	}
	key := keyFromValues(r.PostForm, "")
	key.FeatureID = id
	if _, err := u.api.CreateToggle(r.Context(), key); err != nil {
		redirect(w, r, target, "", u.failure(r, "Failed to create toggle", err))
		return
	}
	redirect(w, r, target, "Toggle added", "")
}

func (u *UI) handleFeatureToggleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	target := "/ui/features/" + url.PathEscape(id)
	if err := r.ParseForm(); err != nil {
		redirect(w, r, target, "", "Invalid form submission")
		return
	}
	key := keyFromValues(r.PostForm, "")
	key.FeatureID = id
	if err := u.api.DeleteToggle(r.Context(), key); err != nil {
		redirect(w, r, target, "", u.failure(r, "Failed to delete toggle", err))
		return
	}
	redirect(w, r, target, "Toggle removed", "")
}

type togglesView struct {
	page
	choices
	Filter    model.ToggleKey
	Toggles   []model.Toggle
	Form      model.ToggleKey
	Replacing *model.ToggleKey
	Return    string
}

func (u *UI) handleToggles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := keyFromValues(q, "")
	view := togglesView{
		page:   newPage(r, "Toggles", "toggles"),
		Filter: filter,
		Form:   filter,
		Return: returnURL(r),
	}
	if old := keyFromValues(q, "old"); len(old.Missing()) == 0 {
		view.Replacing = &old
		view.Form = old
	}

	status := http.StatusOK
	var err error
	view.Toggles, err = u.api.ListToggles(ctx, client.ToggleFilter{
		FeatureID:     filter.FeatureID,
		GroupID:       filter.GroupID,
		ProductID:     filter.ProductID,
		EnvironmentID: filter.EnvironmentID,
	})
	if err == nil {
		view.choices, err = u.loadChoices(ctx, true)
	}
	if err != nil {
		view.Error = u.failure(r, "Failed to fetch toggles", err)
		status = http.StatusBadGateway
	}
	u.render(w, r, status, "toggles.html", view)
}

func (u *UI) handleToggleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/ui/toggles", "", "Invalid form submission")
		return
	}
	target := returnPath(r, "/ui/toggles")
	if _, err := u.api.CreateToggle(r.Context(), keyFromValues(r.PostForm, "")); err != nil {
		redirect(w, r, target, "", u.failure(r, "Failed to create toggle", err))
		return
	}
	redirect(w, r, target, "Toggle added", "")
}

func (u *UI) handleToggleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/ui/toggles", "", "Invalid form submission")
		return
	}
	target := returnPath(r, "/ui/toggles")
	if err := u.api.DeleteToggle(r.Context(), keyFromValues(r.PostForm, "")); err != nil {
		redirect(w, r, target, "", u.failure(r, "Failed to delete toggle", err))
		return
	}
	redirect(w, r, target, "Toggle removed", "")
}

func (u *UI) handleToggleReplace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/ui/toggles", "", "Invalid form submission")
		return
	}
	target := returnPath(r, "/ui/toggles")
	oldKey := keyFromValues(r.PostForm, "old")
	newKey := keyFromValues(r.PostForm, "")
	if _, err := u.api.ReplaceToggle(r.Context(), oldKey, newKey); err != nil {
		redirect(w, r, target, "", u.failure(r, "Failed to update toggle", err))
		return
	}
	redirect(w, r, target, "Toggle updated", "")
}

// returnURL is the current page without flash or replace parameters.
func returnURL(r *http.Request) string {
	q := r.URL.Query()
	for _, name := range []string{"notice", "error"} {
		q.Del(name)
	}
	for name := range keyValues(model.ToggleKey{}, "old") {
		q.Del(name)
	}
	if len(q) == 0 {
		return r.URL.Path
	}
	return r.URL.Path + "?" + q.Encode()
}
