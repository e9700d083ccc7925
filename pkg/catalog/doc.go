// Package catalog loads a declarative YAML description of features,
// products, environments, groups and toggles into the store.
//
// # Format
//
//	features:
//	  - name: dark-mode
//	    type: boolean
//	    owner: team-x
//	    description: Switches the **palette**
//	    enabled: true
//	products:
//	  - {name: web, owner: team-web}
//	environments:
//	  - {name: production}
//	groups:
//	  - {name: beta-testers, owner: growth}
//	toggles:
//	  - {feature: dark-mode, group: beta-testers, product: web, environment: production}
//
// Entities are matched by name. Toggles reference entities by name, either
// declared in the same catalog or already stored.
//
// # Usage
//
//	c, err := catalog.ParseFile("catalog.yml")
//	if err != nil {
//	    return err
//	}
//	result, err := catalog.NewLoader(gorm.NewTransactor(db)).Load(ctx, c)
//
// Loading is idempotent: applying the same catalog twice reports every
// entry as unchanged the second time.
package catalog
