// Package cli implements the uploader command line: a one-shot "save" of a
// product's media state, plus listing the product's current images.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"shopmedia/internal/client/api"
	"shopmedia/internal/client/config"
	"shopmedia/internal/client/models"
	"shopmedia/internal/client/pipeline"
	"shopmedia/internal/client/transfer"
	"shopmedia/internal/filex"
	"shopmedia/internal/flagx"
	"shopmedia/internal/logging"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options is the parsed form of one CLI invocation.
type options struct {
	productID   string
	files       []string
	deleteIDs   []string
	title       string
	description string
	priceCents  int64
	listOnly    bool

	titleSet bool
	descSet  bool
	priceSet bool
	remaining int
}

// parseArgs reads the operation flags. Connection and config-file flags
// belong to the config layer and are filtered out before parsing.
func parseArgs(args []string, out io.Writer) (*options, error) {
	args = flagx.ExcludeArgs(args, []string{"-a", "-t", "-c", "-config"})

	opts := &options{}
	var files, deletes stringList

	fs := flag.NewFlagSet("shopmedia", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.productID, "p", "", "product id (required)")
	fs.Var(&files, "f", "image file to upload (repeatable)")
	fs.Var(&deletes, "d", "remote image id to delete (repeatable)")
	fs.StringVar(&opts.title, "title", "", "new product title")
	fs.StringVar(&opts.description, "desc", "", "new product description")
	fs.Int64Var(&opts.priceCents, "price", 0, "new price in cents")
	fs.IntVar(&opts.remaining, "keep", 0, "remote images kept after deletions")
	fs.BoolVar(&opts.listOnly, "l", false, "list the product's images and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			opts.titleSet = true
		case "desc":
			opts.descSet = true
		case "price":
			opts.priceSet = true
		}
	})

	opts.files = files
	opts.deleteIDs = deletes

	if opts.productID == "" {
		return nil, fmt.Errorf("missing required flag -p")
	}
	return opts, nil
}

// update builds the field update, nil pointers for untouched fields.
func (o *options) update() *models.ProductUpdate {
	u := &models.ProductUpdate{}
	if o.titleSet {
		u.Title = &o.title
	}
	if o.descSet {
		u.Description = &o.description
	}
	if o.priceSet {
		u.PriceCents = &o.priceCents
	}
	return u
}

type App struct {
	config *config.Config
	fs     afero.Fs
	api    api.Client
	orch   *pipeline.Orchestrator
	out    io.Writer
}

func NewApp(c *config.Config, logger logging.Logger, out io.Writer) (*App, error) {
	client := api.New(c.AuthorityBaseURL, c.RequestTimeout)
	runner := transfer.NewExecutor(nil, logger)

	return &App{
		config: c,
		fs:     afero.NewOsFs(),
		api:    client,
		orch:   pipeline.New(client, runner, logger),
		out:    out,
	}, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	opts, err := parseArgs(args, a.out)
	if err != nil {
		return err
	}

	if opts.listOnly {
		return a.list(ctx, opts.productID)
	}
	return a.save(ctx, opts)
}

func (a *App) save(ctx context.Context, opts *options) error {
	files := make([]models.LocalFile, 0, len(opts.files))
	for _, path := range opts.files {
		f, closer, err := filex.Load(a.fs, path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer closer.Close()
		files = append(files, f)
	}

	result, err := a.orch.Save(ctx, pipeline.SaveRequest{
		ProductID:       opts.productID,
		Update:          opts.update(),
		DeleteImageIDs:  opts.deleteIDs,
		NewFiles:        files,
		RemainingImages: opts.remaining,
	})
	if result != nil {
		a.report(result, files)
	}
	return err
}

// report prints one line per selected file, in selection order.
func (a *App) report(result *pipeline.SaveResult, files []models.LocalFile) {
	for _, o := range result.Outcomes {
		name := ""
		if o.Position < len(files) {
			name = files[o.Position].Name
		}
		if o.Err != nil {
			fmt.Fprintf(a.out, "FAILED  %s: %v\n", name, o.Err)
			continue
		}
		fmt.Fprintf(a.out, "ok      %s -> %s\n", name, o.StoredURL)
	}
}

func (a *App) list(ctx context.Context, productID string) error {
	imgs, err := a.api.ListImages(ctx, productID)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	for _, img := range imgs {
		fmt.Fprintf(a.out, "%s  %s  %s\n", img.ID, img.Name, img.URL)
	}
	return nil
}
