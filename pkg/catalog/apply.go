package catalog

import (
	"fmt"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

func (lc *loadContext) applyFeatures(specs []Feature) error {
	counts := lc.count(model.KindFeature)
	for _, spec := range specs {
		in := store.FeatureInput{
			Name:        spec.Name,
			Type:        spec.Type,
			Owner:       spec.Owner,
			Description: spec.Description,
			Enabled:     spec.Enabled,
		}

		existing, ok := lc.features[spec.Name]
		switch {
		case !ok:
			counts.Created++
			lc.ids[model.KindFeature][spec.Name] = pendingID
			if lc.dryRun {
				continue
			}
			f, err := lc.stores.Features.CreateFeature(lc.ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create feature %q: %w", spec.Name, err)
			}
			lc.ids[model.KindFeature][spec.Name] = f.ID
			lc.log.Info("created feature", "name", f.Name, "id", f.ID)

		case existing.Type != spec.Type || existing.Owner != spec.Owner ||
			descriptionChanged(existing.Description, spec.Description) ||
			(spec.Enabled != nil && existing.Enabled != *spec.Enabled):
			counts.Updated++
			if lc.dryRun {
				continue
			}
			if _, err := lc.stores.Features.UpdateFeature(lc.ctx, existing.ID, in); err != nil {
				return fmt.Errorf("failed to update feature %q: %w", spec.Name, err)
			}
			lc.log.Info("updated feature", "name", spec.Name, "id", existing.ID)

		default:
			counts.Unchanged++
		}
	}
	return nil
}

func (lc *loadContext) applyProducts(specs []Product) error {
	counts := lc.count(model.KindProduct)
	for _, spec := range specs {
		in := store.ProductInput{Name: spec.Name, Owner: spec.Owner, Description: spec.Description}

		existing, ok := lc.products[spec.Name]
		switch {
		case !ok:
			counts.Created++
			lc.ids[model.KindProduct][spec.Name] = pendingID
			if lc.dryRun {
				continue
			}
			p, err := lc.stores.Products.CreateProduct(lc.ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create product %q: %w", spec.Name, err)
			}
			lc.ids[model.KindProduct][spec.Name] = p.ID
			lc.log.Info("created product", "name", p.Name, "id", p.ID)

		case existing.Owner != spec.Owner || descriptionChanged(existing.Description, spec.Description):
			counts.Updated++
			if lc.dryRun {
				continue
			}
			if _, err := lc.stores.Products.UpdateProduct(lc.ctx, existing.ID, in); err != nil {
				return fmt.Errorf("failed to update product %q: %w", spec.Name, err)
			}
			lc.log.Info("updated product", "name", spec.Name, "id", existing.ID)

		default:
			counts.Unchanged++
		}
	}
	return nil
}

func (lc *loadContext) applyEnvironments(specs []Environment) error {
	counts := lc.count(model.KindEnvironment)
	for _, spec := range specs {
		in := store.EnvironmentInput{Name: spec.Name, Description: spec.Description}

		existing, ok := lc.environments[spec.Name]
		switch {
		case !ok:
			counts.Created++
			lc.ids[model.KindEnvironment][spec.Name] = pendingID
			if lc.dryRun {
				continue
			}
			e, err := lc.stores.Environments.CreateEnvironment(lc.ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create environment %q: %w", spec.Name, err)
			}
			lc.ids[model.KindEnvironment][spec.Name] = e.ID
			lc.log.Info("created environment", "name", e.Name, "id", e.ID)

		case descriptionChanged(existing.Description, spec.Description):
			counts.Updated++
			if lc.dryRun {
				continue
			}
			if _, err := lc.stores.Environments.UpdateEnvironment(lc.ctx, existing.ID, in); err != nil {
				return fmt.Errorf("failed to update environment %q: %w", spec.Name, err)
			}
			lc.log.Info("updated environment", "name", spec.Name, "id", existing.ID)

		default:
			counts.Unchanged++
		}
	}
	return nil
}

func (lc *loadContext) applyGroups(specs []Group) error {
	counts := lc.count(model.KindGroup)
	for _, spec := range specs {
		in := store.GroupInput{Name: spec.Name, Owner: spec.Owner, Description: spec.Description}

		existing, ok := lc.groups[spec.Name]
		switch {
		case !ok:
			counts.Created++
			lc.ids[model.KindGroup][spec.Name] = pendingID
			if lc.dryRun {
				continue
			}
			g, err := lc.stores.Groups.CreateGroup(lc.ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create group %q: %w", spec.Name, err)
			}
			lc.ids[model.KindGroup][spec.Name] = g.ID
			lc.log.Info("created group", "name", g.Name, "id", g.ID)

		case existing.Owner != spec.Owner || descriptionChanged(existing.Description, spec.Description):
			counts.Updated++
			if lc.dryRun {
				continue
			}
			if _, err := lc.stores.Groups.UpdateGroup(lc.ctx, existing.ID, in); err != nil {
				return fmt.Errorf("failed to update group %q: %w", spec.Name, err)
			}
			lc.log.Info("updated group", "name", spec.Name, "id", existing.ID)

		default:
			counts.Unchanged++
		}
	}
	return nil
}

func (lc *loadContext) applyToggles(specs []Toggle) error {
	counts := lc.count(model.KindToggle)
	for _, spec := range specs {
		key := model.ToggleKey{
			FeatureID:     lc.ids[model.KindFeature][spec.Feature],
			GroupID:       lc.ids[model.KindGroup][spec.Group],
			ProductID:     lc.ids[model.KindProduct][spec.Product],
			EnvironmentID: lc.ids[model.KindEnvironment][spec.Environment],
		}
		// A dry run leaves new entities without ids, so their toggles are new too.
		if len(key.Missing()) > 0 {
			counts.Created++
			continue
		}

		existing, err := lc.stores.Toggles.ListToggles(lc.ctx, store.ToggleFilter{
			FeatureID:     key.FeatureID,
			GroupID:       key.GroupID,
			ProductID:     key.ProductID,
			EnvironmentID: key.EnvironmentID,
		})
		if err != nil {
			return fmt.Errorf("failed to list toggles: %w", err)
		}
		if len(existing) > 0 {
			counts.Unchanged++
			continue
		}

		counts.Created++
		if lc.dryRun {
			continue
		}
		if _, err := lc.stores.Toggles.CreateToggle(lc.ctx, key); err != nil {
			return fmt.Errorf("failed to create toggle %s: %w", spec, err)
		}
		lc.log.Info("created toggle", "toggle", spec.String())
	}
	return nil
}

// descriptionChanged compares a stored description with a declared one.
// An omitted declaration never counts as a change; empty equals NULL.
func descriptionChanged(stored, declared *string) bool {
	if declared == nil {
		return false
	}
	current := ""
	if stored != nil {
		current = *stored
	}
	return current != *declared
}
