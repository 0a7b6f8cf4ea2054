package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/predictor"
)

// ExportFileName is the name of the file written by ExportFile.
const ExportFileName = "breast_cancer_data.json"

// User-facing error texts.
const (
	MsgFeaturesFailed = "Failed to load feature names"
	MsgPredictFailed  = "Failed to make prediction. Please try again."
)

var (
	// ErrNotReady is returned by Submit when a field is empty or invalid.
	ErrNotReady = errors.New("form is not ready for submission")
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("submission already in progress")
	// ErrUnknownFeature is returned when a name is not part of the fetched list.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrNoFeatures is returned when the feature list has not been fetched.
	ErrNoFeatures = errors.New("feature names not loaded")
)

// Service is the remote classification service.
type Service interface {
	Features(ctx context.Context) ([]string, error)
	ModelInfo(ctx context.Context) (*predictor.ModelInfo, error)
	Predict(ctx context.Context, values []float64) (*predictor.Result, error)
}

// Recorder receives every successful submission.
type Recorder interface {
	Record(names []string, values []float64, result *predictor.Result) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder attaches a submission recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// Controller owns the state of one form: the feature values, the model
// description, the last prediction and the submission status.
// It is safe for concurrent use.
type Controller struct {
	svc      Service
	logger   *slog.Logger
	recorder Recorder

	mu      sync.Mutex
	names   []string
	values  features.Set
	info    *predictor.ModelInfo
	result  *predictor.Result
	loading bool
	errMsg  string
	phase   Phase
}

// New creates a controller backed by svc.
func New(svc Service, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		logger: logger,
		values: features.Set{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init fetches feature names and model info concurrently. Only a feature
// name failure is returned; model info is optional.
func (c *Controller) Init(ctx context.Context) error {
	var (
		wg      sync.WaitGroup
		featErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		featErr = c.LoadFeatures(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = c.LoadModelInfo(ctx)
	}()
	wg.Wait()

	return featErr
}

// LoadFeatures fetches the authoritative feature order and resets every
// value to empty.
func (c *Controller) LoadFeatures(ctx context.Context) error {
	names, err := c.svc.Features(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.errMsg = MsgFeaturesFailed
		c.phase = PhaseError
		c.logger.Error("failed to load feature names", "error", err)
		return fmt.Errorf("failed to load feature names: %w", err)
	}

	c.names = append([]string(nil), names...)
	c.values = features.NewSet(c.names)
	if c.errMsg == MsgFeaturesFailed {
		c.errMsg = ""
		c.phase = PhaseIdle
	}

	c.logger.Debug("feature names loaded", "count", len(c.names))
	return nil
}

// LoadModelInfo fetches the model description. Failures are logged and
// leave the info absent.
func (c *Controller) LoadModelInfo(ctx context.Context) error {
	info, err := c.svc.ModelInfo(ctx)
	if err != nil {
		c.logger.Warn("failed to load model info", "error", err)
		return fmt.Errorf("failed to load model info: %w", err)
	}

	c.mu.Lock()
	c.info = info
	c.mu.Unlock()

	return nil
}

// SetField assigns the raw value of one field.
func (c *Controller) SetField(name, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	c.values[name] = raw
	return nil
}

// Fill assigns every value in set. Nothing is changed if set names a
// feature the controller does not know.
func (c *Controller) Fill(set features.Set) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.names) == 0 {
		return ErrNoFeatures
	}
	for name := range set {
		if _, ok := c.values[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
	}
	for name, raw := range set {
		c.values[name] = raw
	}
	return nil
}

// LoadSample replaces all values with the reference patient.
func (c *Controller) LoadSample() {
	sample := features.Sample()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = features.NewSet(c.names)
	for _, n := range c.names {
		if v, ok := sample[n]; ok {
			c.values[n] = v
		}
	}
	c.resetOutcomeLocked()
}

// Clear empties every field.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = features.NewSet(c.names)
	c.resetOutcomeLocked()
}

func (c *Controller) resetOutcomeLocked() {
	c.errMsg = ""
	c.result = nil
	c.phase = PhaseIdle
}

// Export writes the current values as indented JSON.
func (c *Controller) Export(w io.Writer) error {
	c.mu.Lock()
	values := c.values.Clone()
	c.mu.Unlock()

	return values.WriteJSON(w)
}

// ExportFile writes the current values to ExportFileName inside dir and
// returns the written path.
func (c *Controller) ExportFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, ExportFileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := c.Export(file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	c.logger.Info("feature data exported", "path", path)
	return path, nil
}

// Submit sends the current values to the service. Calls made while a
// submission is in flight return ErrBusy and change nothing.
func (c *Controller) Submit(ctx context.Context) (*predictor.Result, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	if !c.values.Complete(c.names) {
		c.errMsg = notReadyMessage(len(c.names))
		c.result = nil
		c.phase = PhaseError
		c.mu.Unlock()
		return nil, ErrNotReady
	}

	names := append([]string(nil), c.names...)
	vec, err := c.values.Vector(names)
	if err != nil {
		c.errMsg = notReadyMessage(len(names))
		c.result = nil
		c.phase = PhaseError
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	c.loading = true
	c.errMsg = ""
	c.result = nil
	c.phase = PhaseLoading
	c.mu.Unlock()

	res, err := c.svc.Predict(ctx, vec)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		msg := predictor.ServiceMessage(err)
		if msg == "" {
			msg = MsgPredictFailed
		}
		c.errMsg = msg
		c.phase = PhaseError
		c.mu.Unlock()

		c.logger.Error("prediction failed", "error", err)
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	c.result = res
	c.phase = PhaseSuccess
	c.mu.Unlock()

	c.logger.Info("prediction complete",
		"class", res.Title(),
		"confidence", res.Confidence,
	)

	if c.recorder != nil {
		if err := c.recorder.Record(names, vec, res); err != nil {
			c.logger.Warn("failed to record submission", "error", err)
		}
	}

	return res, nil
}

func notReadyMessage(n int) string {
	return fmt.Sprintf("Please fill in all %d features with valid numbers", n)
}

// Ready reports whether Submit would reach the service.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Complete(c.names)
}

// Names returns the fetched feature names in service order.
func (c *Controller) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Names:   append([]string(nil), c.names...),
		Values:  c.values.Clone(),
		Info:    c.info,
		Result:  c.result,
		Loading: c.loading,
		Error:   c.errMsg,
		Phase:   c.phase,
		Ready:   c.values.Complete(c.names),
	}
}

// Fork returns a new controller with the same service, feature names and
// model info, and empty values.
func (c *Controller) Fork() *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := append([]string(nil), c.names...)
	return &Controller{
		svc:      c.svc,
		logger:   c.logger,
		recorder: c.recorder,
		names:    names,
		values:   features.NewSet(names),
		info:     c.info,
		errMsg:   c.errMsg,
		phase:    c.phase,
	}
}
