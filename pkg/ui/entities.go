package ui

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
)

type field struct {
	Name     string
	Label    string
	Type     string // text, textarea or checkbox
	Required bool
}

// entity describes one of the list/edit pages.
type entity struct {
	kind    model.Kind
	columns []string
	fields  []field
	detail  bool
	rows    func(ctx context.Context) ([]entityRow, error)
	save    func(ctx context.Context, id string, form url.Values) error
	remove  func(ctx context.Context, id string) error
}

type entityRow struct {
	ID        string
	Name      string
	Cells     []interface{}
	DetailURL string
	values    map[string]string
}

type formField struct {
	field
	Value   string
	Checked bool
}

type entityView struct {
	page
	Kind    string
	Plural  string
	Action  string
	Columns []string
	Rows    []entityRow
	Fields  []formField
	EditID  string
}

var (
	nameField        = field{Name: "name", Label: "Name", Type: "text", Required: true}
	ownerField       = field{Name: "owner", Label: "Owner", Type: "text", Required: true}
	descriptionField = field{Name: "description", Label: "Description", Type: "textarea"}
)

func (u *UI) entityPages() []*entity {
	return []*entity{
		{
			kind:    model.KindFeature,
			columns: []string{"Name", "Type", "Owner", "Description", "Status"},
			fields: []field{
				nameField,
				{Name: "type", Label: "Type", Type: "text", Required: true},
				ownerField,
				descriptionField,
				{Name: "enabled", Label: "Enabled", Type: "checkbox"},
			},
			detail: true,
			rows: func(ctx context.Context) ([]entityRow, error) {
				features, err := u.api.ListFeatures(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]entityRow, 0, len(features))
				for _, f := range features {
					rows = append(rows, entityRow{
						ID:        f.ID,
						Name:      f.Name,
						Cells:     []interface{}{f.Name, f.Type, f.Owner, u.markdown.Description(f.Description), statusBadge(f.Enabled)},
						DetailURL: "/ui/features/" + f.ID,
						values: map[string]string{
							"name": f.Name, "type": f.Type, "owner": f.Owner,
							"description": deref(f.Description), "enabled": strconv.FormatBool(f.Enabled),
						},
					})
				}
				return rows, nil
			},
			save: func(ctx context.Context, id string, form url.Values) error {
				in := client.FeatureInput{
					Name:        formValue(form, "name"),
					Type:        formValue(form, "type"),
					Owner:       formValue(form, "owner"),
					Description: formOptional(form, "description"),
					Enabled:     formCheckbox(form, "enabled"),
				}
				if id == "" {
					_, err := u.api.CreateFeature(ctx, in)
					return err
				}
				_, err := u.api.UpdateFeature(ctx, id, in)
				return err
			},
			remove: u.api.DeleteFeature,
		},
		{
			kind:    model.KindProduct,
			columns: []string{"Name", "Owner", "Description"},
			fields:  []field{nameField, ownerField, descriptionField},
			rows: func(ctx context.Context) ([]entityRow, error) {
				products, err := u.api.ListProducts(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]entityRow, 0, len(products))
				for _, p := range products {
					rows = append(rows, entityRow{
						ID:     p.ID,
						Name:   p.Name,
						Cells:  []interface{}{p.Name, p.Owner, u.markdown.Description(p.Description)},
						values: map[string]string{"name": p.Name, "owner": p.Owner, "description": deref(p.Description)},
					})
				}
				return rows, nil
			},
			save: func(ctx context.Context, id string, form url.Values) error {
				in := client.ProductInput{
					Name:        formValue(form, "name"),
					Owner:       formValue(form, "owner"),
					Description: formOptional(form, "description"),
				}
				if id == "" {
					_, err := u.api.CreateProduct(ctx, in)
					return err
				}
				_, err := u.api.UpdateProduct(ctx, id, in)
				return err
			},
			remove: u.api.DeleteProduct,
		},
		{
			kind:    model.KindEnvironment,
			columns: []string{"Name", "Description"},
			fields:  []field{nameField, descriptionField},
			rows: func(ctx context.Context) ([]entityRow, error) {
				environments, err := u.api.ListEnvironments(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]entityRow, 0, len(environments))
				for _, e := range environments {
					rows = append(rows, entityRow{
						ID:     e.ID,
						Name:   e.Name,
						Cells:  []interface{}{e.Name, u.markdown.Description(e.Description)},
						values: map[string]string{"name": e.Name, "description": deref(e.Description)},
					})
				}
				return rows, nil
			},
			save: func(ctx context.Context, id string, form url.Values) error {
				in := client.EnvironmentInput{
					Name:        formValue(form, "name"),
					Description: formOptional(form, "description"),
				}
				if id == "" {
					_, err := u.api.CreateEnvironment(ctx, in)
					return err
				}
				_, err := u.api.UpdateEnvironment(ctx, id, in)
				return err
			},
			remove: u.api.DeleteEnvironment,
		},
		{
			kind:    model.KindGroup,
			columns: []string{"Name", "Owner", "Description"},
			fields:  []field{nameField, ownerField, descriptionField},
			rows: func(ctx context.Context) ([]entityRow, error) {
				groups, err := u.api.ListGroups(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]entityRow, 0, len(groups))
				for _, g := range groups {
					rows = append(rows, entityRow{
						ID:     g.ID,
						Name:   g.Name,
						Cells:  []interface{}{g.Name, g.Owner, u.markdown.Description(g.Description)},
						values: map[string]string{"name": g.Name, "owner": g.Owner, "description": deref(g.Description)},
					})
				}
				return rows, nil
			},
			save: func(ctx context.Context, id string, form url.Values) error {
				in := client.GroupInput{
					Name:        formValue(form, "name"),
					Owner:       formValue(form, "owner"),
					Description: formOptional(form, "description"),
				}
				if id == "" {
					_, err := u.api.CreateGroup(ctx, in)
					return err
				}
				_, err := u.api.UpdateGroup(ctx, id, in)
				return err
			},
			remove: u.api.DeleteGroup,
		},
	}
}

func (u *UI) handleEntityList(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plural := e.kind.Plural()
		view := entityView{
			page:    newPage(r, e.kind.Title()+"s", plural),
			Kind:    e.kind.Title(),
			Plural:  plural,
			Action:  "/ui/" + plural,
			Columns: e.columns,
		}

		status := http.StatusOK
		rows, err := e.rows(r.Context())
		if err != nil {
			view.Error = u.failure(r, "Failed to fetch "+plural, err)
			status = http.StatusBadGateway
		}
		view.Rows = rows

		var editing map[string]string
		if id := r.URL.Query().Get("edit"); id != "" && err == nil {
			for _, row := range rows {
				if row.ID == id {
					editing = row.values
					view.EditID = id
				}
			}
			if editing == nil {
				view.Error = e.kind.Title() + " not found"
				status = http.StatusNotFound
			}
		}

		for _, f := range e.fields {
			ff := formField{field: f}
			if editing != nil {
				ff.Value = editing[f.Name]
				ff.Checked = editing[f.Name] == "true"
			}
			view.Fields = append(view.Fields, ff)
		}

		u.render(w, r, status, "entities.html", view)
	}
}

func (u *UI) handleEntitySave(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := "/ui/" + e.kind.Plural()
		if err := r.ParseForm(); err != nil {
			redirect(w, r, target, "", "Invalid form submission")
			return
		}

		id := formValue(r.PostForm, "id")
		verb := "created"
		if id != "" {
			verb = "updated"
		}
		if err := e.save(r.Context(), id, r.PostForm); err != nil {
			msg := u.failure(r, fmt.Sprintf("Failed to save %s", e.kind), err)
			if id != "" {
				target += "?edit=" + url.QueryEscape(id)
			}
			redirect(w, r, target, "", msg)
			return
		}
		redirect(w, r, target, fmt.Sprintf("%s %s", e.kind.Title(), verb), "")
	}
}

func (u *UI) handleEntityDelete(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := "/ui/" + e.kind.Plural()
		id := mux.Vars(r)["id"]
		if err := e.remove(r.Context(), id); err != nil {
			redirect(w, r, target, "", u.failure(r, fmt.Sprintf("Failed to delete %s", e.kind), err))
			return
		}
		redirect(w, r, target, e.kind.Title()+" deleted", "")
	}
}

func statusBadge(enabled bool) template.HTML {
	class := "badge badge-off"
	if enabled {
		class = "badge badge-on"
	}
	return template.HTML(`<span class="` + class + `">` + statusLabel(enabled) + `</span>`)
}

func formValue(form url.Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}

// formOptional always returns a pointer so an emptied textarea clears the
// stored value.
func formOptional(form url.Values, name string) *string {
	v := formValue(form, name)
	return &v
}

func formCheckbox(form url.Values, name string) *bool {
	v := form.Get(name) != ""
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
