package assess

import (
	"context"
	"fmt"
	"os"
	"sync"

	"chiron/internal/logging"
	"chiron/internal/triage"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// CannedResponse returns the fixed terminal-tier guidance used when
// every network tier fails. The content is a deliberately generic
// moderate/serious default; it is not tailored to the described injury.
func CannedResponse() triage.AssessmentResponse {
	return triage.AssessmentResponse{
		SeverityLevel: triage.SeveritySerious,
		ImmediateActions: []string{
			"Assess for signs of internal injury",
			"Check breathing pattern",
			"Monitor for signs of shock",
			"Keep patient warm and still",
		},
		AssessmentSteps: []string{
			"Examine affected area for tenderness and deformity",
			"Monitor vital signs (breathing rate, pulse)",
			"Check for additional injuries",
			"Assess level of consciousness",
			"Look for bruising or other visible signs",
		},
		RedFlags: []string{
			"Difficulty breathing or shortness of breath",
			"Severe pain that increases over time",
			"Changes in level of consciousness",
			"Signs of shock (pale, clammy skin, rapid pulse)",
		},
		NextSteps: []string{
			"Continue monitoring vital signs",
			"Help patient find comfortable position",
			"Plan evacuation if symptoms worsen",
			"Document any changes in condition",
		},
	}
}

// guidanceFile is the on-disk YAML shape of a canned-guidance override.
type guidanceFile struct {
	SeverityLevel    string   `yaml:"severity_level"`
	ImmediateActions []string `yaml:"immediate_actions"`
	AssessmentSteps  []string `yaml:"assessment_steps"`
	RedFlags         []string `yaml:"red_flags"`
	NextSteps        []string `yaml:"next_steps"`
}

// CannedSource serves the terminal-tier response. By default it serves
// the built-in CannedResponse; an operator can point it at a YAML file
// to override the default guidance set, with hot reload on file change.
type CannedSource struct {
	mu   sync.RWMutex
	resp triage.AssessmentResponse
	path string
}

// NewCannedSource returns a source serving the built-in default.
func NewCannedSource() *CannedSource {
	return &CannedSource{resp: CannedResponse()}
}

// Response returns the current canned response.
func (c *CannedSource) Response() triage.AssessmentResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resp
}

// LoadFile loads a YAML guidance override. An override that fails the
// completeness invariant is rejected; the previous guidance stays live.
func (c *CannedSource) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var gf guidanceFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return err
	}
	candidate := triage.AssessmentResponse{
		SeverityLevel:    triage.Severity(gf.SeverityLevel),
		ImmediateActions: gf.ImmediateActions,
		AssessmentSteps:  gf.AssessmentSteps,
		RedFlags:         gf.RedFlags,
		NextSteps:        gf.NextSteps,
	}
	if result := triage.Validate(candidate); result.Kind != triage.Complete {
		return fmt.Errorf("guidance override rejected: %s", result.Reason)
	}

	c.mu.Lock()
	c.resp = candidate
	c.path = path
	c.mu.Unlock()

	logging.Resolver("Canned guidance loaded from %s", path)
	return nil
}

// Watch reloads the guidance file whenever it changes on disk. Blocks
// until ctx is canceled; callers run it in a goroutine.
func (c *CannedSource) Watch(ctx context.Context) error {
	c.mu.RLock()
	path := c.path
	c.mu.RUnlock()
	if path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := c.LoadFile(path); err != nil {
				logging.Get(logging.CategoryResolver).Warn("Guidance reload failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryResolver).Warn("Guidance watcher error: %v", err)
		}
	}
}
