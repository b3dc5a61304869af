// Package testkit drives HTTP API tests from JSON scenario files.
//
// Each scenario describes one request and what must come back:
//
//	{
//	  "name": "place order",
//	  "requestMethod": "POST",
//	  "requestUrl": "/api/orders",
//	  "requestBody": {"customer_id": 1, "date": "2024-03-01", "lines": [...]},
//	  "expectedCode": 201,
//	  "responseBody": {"data": {"total": "30"}}
//	}
//
// Bodies may also live in sibling files (requestFileName, responseFileName).
// The expected response is a subset: every key it names must be present
// with the same value, other keys are ignored, arrays must match in length.
//
// RunDir runs a directory of scenarios in file-name order against one
// handler, so later scenarios see the state earlier ones created:
//
//	testkit.RunDir(t, app.Handler(), "testdata/api")
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"` // GET, POST, PUT, DELETE
	RequestURL      string            `json:"requestUrl"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	Headers         map[string]string `json:"headers"`

	ExpectedCode       int             `json:"expectedCode"`
	ExpectedStatusCode int             `json:"expectedStatusCode"` // alias for expectedCode
	ResponseBody       json.RawMessage `json:"responseBody"`
	ResponseFileName   string          `json:"responseFileName"`
	ResponseContains   []string        `json:"responseContains"` // substrings of a non-JSON body

	dir string
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if len(s.RequestBody) > 0 && s.RequestFileName != "" {
		return fmt.Errorf("requestBody and requestFileName are exclusive")
	}
	if len(s.ResponseBody) > 0 && s.ResponseFileName != "" {
		return fmt.Errorf("responseBody and responseFileName are exclusive")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// RequestBytes returns the request body, inline or from its file. It is
// nil when the scenario sends no body.
func (s *Scenario) RequestBytes() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return s.readRelative(s.RequestFileName)
}

// ExpectedBytes returns the expected response body, inline or from its
// file. It is nil when the body is not checked as JSON.
func (s *Scenario) ExpectedBytes() ([]byte, error) {
	if len(s.ResponseBody) > 0 {
		return s.ResponseBody, nil
	}
	return s.readRelative(s.ResponseFileName)
}

func (s *Scenario) readRelative(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	return os.ReadFile(name)
}

// LoadAllFromDir loads every *.json file in dir, sorted by file name.
// Scenario body files must therefore use another extension or live in a
// subdirectory. Files that fail to load are returned as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(paths)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
