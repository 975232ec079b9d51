package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/vango-dev/sprout/internal/config"
	"github.com/vango-dev/sprout/internal/errors"
	"github.com/vango-dev/sprout/pkg/export"
	"github.com/vango-dev/sprout/pkg/render"
)

func exportCmd(g *globalFlags) *cobra.Command {
	var (
		dir      string
		bucket   string
		prefix   string
		region   string
		endpoint string
		pretty   bool
		keyed    bool
	)

	cmd := &cobra.Command{
		Use:   "export [demo...]",
		Short: "Export demos as static HTML",
		Long: `Render the initial view of each demo to <demo>.html without the thin
client, into a directory or an S3 bucket.

S3 credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN. --endpoint selects an S3-compatible store and switches
to path-style addressing.

Examples:
  sprout export
  sprout export counter todo --dir=public
  sprout export --bucket=my-site --prefix=demos --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if dir != "" {
				cfg.Export.Dir = dir
			}
			s3cfg := &cfg.Export.S3
			if bucket != "" {
				s3cfg.Bucket = bucket
			}
			if prefix != "" {
				s3cfg.Prefix = prefix
			}
			if region != "" {
				s3cfg.Region = region
			}
			if endpoint != "" {
				s3cfg.Endpoint = endpoint
			}

			names := args
			if len(names) == 0 {
				names = demoNames()
			}
			selected := make([]demoApp, 0, len(names))
			for _, name := range names {
				d, err := lookupDemo(name)
				if err != nil {
					return err
				}
				selected = append(selected, d)
			}

			store, where, err := openStore(cfg)
			if err != nil {
				return err
			}

			opts := runOptions{
				keyed:    keyed || cfg.Render.Keyed,
				renderer: render.RendererConfig{Pretty: pretty || cfg.Render.Pretty},
				logger:   g.logger(cmd.ErrOrStderr()).With("component", "export"),
			}
			w := cmd.OutOrStdout()
			for _, d := range selected {
				objs, err := d.export(cmd.Context(), store, d.name+".html", opts)
				if err != nil {
					return errors.Classify(err, "E160")
				}
				for _, obj := range objs {
					success(w, "%s (%d bytes)", obj.Name, obj.Size)
					if obj.URL != "" {
						info(w, "%s", obj.URL)
					}
				}
			}
			info(w, "Exported %d page(s) to %s", len(selected), where)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default from sprout.json, then dist)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Export to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region of the bucket")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML")
	cmd.Flags().BoolVar(&keyed, "keyed", false, "Use keyed reconciliation")

	return cmd
}

// openStore returns the export store cfg selects and a description of it.
func openStore(cfg *config.Config) (export.Store, string, error) {
	if !cfg.ExportsToS3() {
		store, err := export.NewDiskStore(cfg.ExportPath(), 0)
		if err != nil {
			return nil, "", errors.New("E160").Wrap(err)
		}
		return store, store.Dir(), nil
	}

	sc := cfg.Export.S3
	if sc.Region == "" {
		return nil, "", errors.New("E162").
			WithDetail("Exporting to s3://" + sc.Bucket + " needs a region.").
			WithExample("sprout export --bucket=" + sc.Bucket + " --region=eu-west-1")
	}
	opts := s3.Options{
		Region:      sc.Region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}
	if sc.Endpoint != "" {
		opts.BaseEndpoint = aws.String(sc.Endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)
	store := export.NewS3Store(client, sc.Bucket, sc.Prefix).
		WithPresigner(s3.NewPresignClient(client))
	return store, fmt.Sprintf("s3://%s/%s", sc.Bucket, sc.Prefix), nil
}

// envCredentials reads static credentials from the standard AWS variables.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "sprout environment",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.New("E162").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set.")
		}
		return creds, nil
	})
}
