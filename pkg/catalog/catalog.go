package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// Catalog is the declarative description of every entity and toggle.
type Catalog struct {
	Features     []Feature     `yaml:"features" validate:"dive"`
	Products     []Product     `yaml:"products" validate:"dive"`
	Environments []Environment `yaml:"environments" validate:"dive"`
	Groups       []Group       `yaml:"groups" validate:"dive"`
	Toggles      []Toggle      `yaml:"toggles" validate:"dive"`
}

// Feature omits Description or Enabled to leave the stored value alone.
type Feature struct {
	Name        string  `yaml:"name" validate:"required"`
	Type        string  `yaml:"type" validate:"required"`
	Owner       string  `yaml:"owner" validate:"required"`
	Description *string `yaml:"description"`
	Enabled     *bool   `yaml:"enabled"`
}

type Product struct {
	Name        string  `yaml:"name" validate:"required"`
	Owner       string  `yaml:"owner" validate:"required"`
	Description *string `yaml:"description"`
}

type Environment struct {
	Name        string  `yaml:"name" validate:"required"`
	Description *string `yaml:"description"`
}

type Group struct {
	Name        string  `yaml:"name" validate:"required"`
	Owner       string  `yaml:"owner" validate:"required"`
	Description *string `yaml:"description"`
}

// Toggle references its entities by name.
type Toggle struct {
	Feature     string `yaml:"feature" validate:"required"`
	Group       string `yaml:"group" validate:"required"`
	Product     string `yaml:"product" validate:"required"`
	Environment string `yaml:"environment" validate:"required"`
}

type ref struct {
	kind model.Kind
	name string
}

func (t Toggle) refs() []ref {
	return []ref{
		{model.KindFeature, t.Feature},
		{model.KindGroup, t.Group},
		{model.KindProduct, t.Product},
		{model.KindEnvironment, t.Environment},
	}
}

func (t Toggle) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Feature, t.Group, t.Product, t.Environment)
}

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Parse decodes a catalog document. Unknown keys are rejected and an empty
// document yields an empty catalog.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// ParseFile parses the catalog at path.
func ParseFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Parse(file)
}

// Validate checks required fields and that names are unique per kind.
// Toggle references are resolved by the Loader, which also knows the
// stored entities.
func (c *Catalog) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s is %s", fieldPath(fe.Namespace()), fe.Tag()))
		}
	}

	problems = append(problems, duplicates("features", len(c.Features), func(i int) string { return c.Features[i].Name })...)
	problems = append(problems, duplicates("products", len(c.Products), func(i int) string { return c.Products[i].Name })...)
	problems = append(problems, duplicates("environments", len(c.Environments), func(i int) string { return c.Environments[i].Name })...)
	problems = append(problems, duplicates("groups", len(c.Groups), func(i int) string { return c.Groups[i].Name })...)
	problems = append(problems, duplicates("toggles", len(c.Toggles), func(i int) string { return c.Toggles[i].String() })...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// fieldPath drops the root struct name: "Catalog.features[0].name" becomes
// "features[0].name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func duplicates(section string, n int, name func(int) string) []string {
	var problems []string
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := name(i)
		if key == "" {
			continue
		}
		if first, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("%s[%d] duplicates %s[%d] (%q)", section, i, section, first, key))
			continue
		}
		seen[key] = i
	}
	return problems
}
