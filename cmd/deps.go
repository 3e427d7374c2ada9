// Package cmd implements the eca subcommands. Commands receive their
// dependencies through a Deps value so tests can inject fakes; anything left
// nil is constructed on demand from the loaded configuration.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vishwa0198/earnings-call-analyzer/config"
	"github.com/vishwa0198/earnings-call-analyzer/credentials"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/ai"
	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/pipeline"
)

// Deps holds everything a command needs. The root command fills Config,
// Logger, and OutputFormat before any subcommand runs; the rest is lazily
// built from the config unless a test has already set it.
type Deps struct {
	Config       *config.Config
	Logger       logging.Logger
	Credentials  *credentials.Store
	Embedder     ai.Embedder
	Completer    ai.Completer
	Store        *index.Store
	Metrics      *pipeline.Metrics
	OutputFormat config.OutputFormat

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader
}

func (d *Deps) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func (d *Deps) in() io.Reader {
	if d.In != nil {
		return d.In
	}
	return os.Stdin
}

func (d *Deps) log() logging.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.NewNopLogger()
}

func (d *Deps) format() config.OutputFormat {
	if d.OutputFormat != "" {
		return d.OutputFormat
	}
	if d.Config != nil && d.Config.OutputFormat != "" {
		return d.Config.OutputFormat
	}
	return config.OutputFormatText
}

func (d *Deps) metrics() *pipeline.Metrics {
	if d.Metrics == nil {
		d.Metrics = pipeline.DefaultMetrics()
	}
	return d.Metrics
}

func (d *Deps) credentials() *credentials.Store {
	if d.Credentials == nil {
		d.Credentials = credentials.NewStore()
	}
	return d.Credentials
}

// indexStore returns the on-disk store, building it from the config on first
// use.
func (d *Deps) indexStore() (*index.Store, error) {
	if d.Store != nil {
		return d.Store, nil
	}
	if d.Config == nil {
		return nil, fmt.Errorf("%w: no configuration loaded", ecaerrors.ErrValidation)
	}
	d.Store = index.NewStore(
		d.Config.Index.Dir,
		d.Config.Index.ClearMaxAttempts,
		d.Config.Index.ClearInitialBackoff,
		d.log(),
	)
	return d.Store, nil
}

// openAI fills Embedder and Completer with a shared OpenAI client. The API
// key comes from the config file, the environment, or the system keyring, in
// that order.
func (d *Deps) openAI() error {
	if d.Embedder != nil && d.Completer != nil {
		return nil
	}
	if d.Config == nil {
		return fmt.Errorf("%w: no configuration loaded", ecaerrors.ErrValidation)
	}

	key := d.Config.OpenAI.APIKey
	if key == "" {
		var err error
		key, err = d.credentials().APIKey()
		if err != nil {
			return fmt.Errorf("resolving API key: %w (run `eca auth set-key` or export %s)", err, credentials.EnvAPIKey)
		}
	}

	opts := ai.DefaultOptions(key)
	if d.Config.OpenAI.EmbeddingModel != "" {
		opts.EmbeddingModel = d.Config.OpenAI.EmbeddingModel
	}
	if d.Config.OpenAI.CompletionModel != "" {
		opts.CompletionModel = d.Config.OpenAI.CompletionModel
	}
	if d.Config.OpenAI.RequestTimeout > 0 {
		opts.RequestTimeout = d.Config.OpenAI.RequestTimeout
	}

	client, err := ai.NewOpenAIClient(opts, d.log())
	if err != nil {
		return err
	}
	if d.Embedder == nil {
		d.Embedder = client
	}
	if d.Completer == nil {
		d.Completer = client
	}
	return nil
}

// printResult renders v according to the configured output format. The human
// function writes the text rendering.
func (d *Deps) printResult(v interface{}, human func(w io.Writer)) error {
	switch d.format() {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(d.out())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputFormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		_, err = d.out().Write(data)
		return err
	default:
		human(d.out())
		return nil
	}
}
