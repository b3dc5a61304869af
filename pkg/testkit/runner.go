package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Run executes a single scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir runs every scenario in dir as a subtest, in file-name order.
// A scenario that fails to load fails the test without stopping the rest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	body, err := s.RequestBytes()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.ExpectedBytes()
	if err != nil {
		t.Errorf("[%s] read expected response: %v", s.Name, err)
	} else if expected != nil {
		AssertJSONSubset(t, s, expected, rec.Body.Bytes())
	}

	for _, want := range s.ResponseContains {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("[%s] response does not contain %q\nbody: %s", s.Name, want, rec.Body.String())
		}
	}
}

// DumpScenario prints a one-screen summary of s, for writing scenarios.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	fmt.Printf("  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	if s.RequestFileName != "" {
		fmt.Printf("  requestFile:  %s\n", s.RequestFileName)
	}
	if s.ResponseFileName != "" {
		fmt.Printf("  responseFile: %s\n", s.ResponseFileName)
	}
}
