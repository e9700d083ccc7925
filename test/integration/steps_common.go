package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	// ids maps "kind:name" to the id the server assigned.
	ids map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:  tc,
		ids: make(map[string]string),
	}
}

// RegisterSteps registers the HTTP and entity step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^a toggler server is running$`, s.aTogglerServerIsRunning)
	sc.Step(`^an? (feature|product|environment|group) "([^"]*)" exists$`, s.anEntityExists)
	sc.Step(`^"([^"]*)" is toggled on for group "([^"]*)" in product "([^"]*)" and environment "([^"]*)"$`, s.isToggledOn)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT|DELETE) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I create a (feature|product|environment|group) with:$`, s.iCreateAnEntityWith)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should be a list of (\d+) items?$`, s.theResponseShouldBeAListOf)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)

	// State steps
	sc.Step(`^there should be (\d+) (features|products|environments|groups|toggles)$`, s.thereShouldBe)
	sc.Step(`^the feature "([^"]*)" should be (enabled|disabled)$`, s.theFeatureShouldBe)
}

func (s *StepsContext) aTogglerServerIsRunning() error {
	status, err := s.tc.Client.Status(context.Background())
	if err != nil {
		return err
	}
	if status != "ok" {
		return fmt.Errorf("server status is %q", status)
	}
	return nil
}

func (s *StepsContext) anEntityExists(kind, name string) error {
	ctx := context.Background()
	c := s.tc.Client

	var id string
	switch kind {
	case "feature":
		f, err := c.CreateFeature(ctx, client.FeatureInput{Name: name, Type: "boolean", Owner: "integration"})
		if err != nil {
			return err
		}
		id = f.ID
	case "product":
		p, err := c.CreateProduct(ctx, client.ProductInput{Name: name, Owner: "integration"})
		if err != nil {
			return err
		}
		id = p.ID
	case "environment":
		e, err := c.CreateEnvironment(ctx, client.EnvironmentInput{Name: name})
		if err != nil {
			return err
		}
		id = e.ID
	case "group":
		g, err := c.CreateGroup(ctx, client.GroupInput{Name: name, Owner: "integration"})
		if err != nil {
			return err
		}
		id = g.ID
	}
	s.ids[kind+":"+name] = id
	return nil
}

func (s *StepsContext) isToggledOn(feature, group, product, environment string) error {
	key, err := s.toggleKey(feature, group, product, environment)
	if err != nil {
		return err
	}
	_, err = s.tc.Client.CreateToggle(context.Background(), key)
	return err
}

func (s *StepsContext) toggleKey(feature, group, product, environment string) (model.ToggleKey, error) {
	var key model.ToggleKey
	for _, ref := range []struct {
		kind, name string
		dst        *string
	}{
		{"feature", feature, &key.FeatureID},
		{"group", group, &key.GroupID},
		{"product", product, &key.ProductID},
		{"environment", environment, &key.EnvironmentID},
	} {
		id, ok := s.ids[ref.kind+":"+ref.name]
		if !ok {
			return key, fmt.Errorf("no %s named %q in this scenario", ref.kind, ref.name)
		}
		*ref.dst = id
	}
	return key, nil
}

var placeholder = regexp.MustCompile(`\{(feature|product|environment|group):([^}]+)\}`)

// expand replaces {kind:name} with the id recorded for that entity.
func (s *StepsContext) expand(text string) (string, error) {
	var missing error
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		id, ok := s.ids[parts[1]+":"+parts[2]]
		if !ok {
			missing = fmt.Errorf("no %s named %q in this scenario", parts[1], parts[2])
		}
		return id
	})
	return out, missing
}

func (s *StepsContext) do(method, path string, body io.Reader) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	content, err := s.expand(body.Content)
	if err != nil {
		return err
	}
	return s.do(method, path, strings.NewReader(content))
}

func (s *StepsContext) iCreateAnEntityWith(kind string, body *godog.DocString) error {
	plural := kind + "s"
	if err := s.do(http.MethodPost, "/"+plural, bytes.NewBufferString(body.Content)); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(s.responseBody, &created); err != nil {
		return fmt.Errorf("failed to decode created %s: %w", kind, err)
	}
	s.ids[kind+":"+created.Name] = created.ID
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAListOf(count int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &items); err != nil {
		return fmt.Errorf("response is not a JSON list: %w", err)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items, got %d", count, len(items))
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	expected, err := s.expand(expected)
	if err != nil {
		return err
	}
	value, ok := body[field]
	if !ok {
		return fmt.Errorf("response has no field %q: %s", field, string(s.responseBody))
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("response does not contain %q: %s", text, string(s.responseBody))
	}
	return nil
}

// State steps

func (s *StepsContext) thereShouldBe(count int, plural string) error {
	ctx := context.Background()
	c := s.tc.Client

	var n int
	var err error
	switch plural {
	case "features":
		var list []model.Feature
		list, err = c.ListFeatures(ctx)
		n = len(list)
	case "products":
		var list []model.Product
		list, err = c.ListProducts(ctx)
		n = len(list)
	case "environments":
		var list []model.Environment
		list, err = c.ListEnvironments(ctx)
		n = len(list)
	case "groups":
		var list []model.Group
		list, err = c.ListGroups(ctx)
		n = len(list)
	case "toggles":
		var list []model.Toggle
		list, err = c.ListToggles(ctx, client.ToggleFilter{})
		n = len(list)
	}
	if err != nil {
		return err
	}
	if n != count {
		return fmt.Errorf("expected %d %s, got %d", count, plural, n)
	}
	return nil
}

func (s *StepsContext) theFeatureShouldBe(name, state string) error {
	features, err := s.tc.Client.ListFeatures(context.Background())
	if err != nil {
		return err
	}
	for _, f := range features {
		if f.Name == name {
			if f.Enabled != (state == "enabled") {
				return fmt.Errorf("expected feature %q to be %s", name, state)
			}
			return nil
		}
	}
	return fmt.Errorf("feature %q not found", name)
}
