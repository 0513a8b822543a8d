package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/sources/csvsource"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
	"github.com/MrSnakeDoc/pnptools/internal/transport"
)

type submitOptions struct {
	catalog  string
	endpoint string
	baseURL  string
	payload  submission.Payload
}

func bindPayloadFlags(cmd *cobra.Command, opts *submitOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.catalog, "catalog", "", "catalog checked for duplicates (default $PNP_CATALOG_FILE)")
	f.StringVar(&opts.payload.Category, "category", "", "category (required)")
	f.StringVar(&opts.payload.Title, "title", "", "title (required)")
	f.StringVar(&opts.payload.Creator, "creator", "", "creator")
	f.StringVar(&opts.payload.Description, "description", "", "description (required)")
	f.StringVar(&opts.payload.Link, "link", "", "http(s) link (required)")
	f.StringVar(&opts.payload.Image, "image", "", "direct .jpg/.jpeg/.png image URL")
}

func newSubmitCmd(c *cli) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate a resource and send it to the submission endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := screen(cmd, c, opts)
			if err != nil {
				return err
			}

			endpoint := opts.endpoint
			if endpoint == "" {
				endpoint = c.cfg.SubmissionEndpoint
			}
			baseRaw := opts.baseURL
			if baseRaw == "" {
				baseRaw = c.cfg.BaseURL
			}
			base, err := url.Parse(baseRaw)
			if err != nil {
				return fmt.Errorf("invalid base URL %q: %w", baseRaw, err)
			}

			client := transport.New(transport.WithBaseURL(base), transport.WithLogger(c.log))
			outcome, err := client.Deliver(cmd.Context(), endpoint, p, time.Now())
			if err != nil {
				return err
			}

			switch outcome {
			case transport.OutcomeVerified:
				fmt.Fprintln(cmd.OutOrStdout(), "Thanks! Your resource was submitted.")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Submitted. The endpoint did not confirm receipt.")
			}
			return nil
		},
	}

	bindPayloadFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "submission endpoint, absolute or relative to --base-url (default $PNP_SUBMISSION_ENDPOINT)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "base for relative endpoints (default $PNP_BASE_URL)")
	return cmd
}

func newCheckCmd(c *cli) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the submission rules and duplicate check without sending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := screen(cmd, c, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK: the resource can be submitted.")
			return nil
		},
	}

	bindPayloadFlags(cmd, opts)
	return cmd
}

// screen validates the payload and checks it against the catalog. A
// catalog that cannot be loaded is reported and skipped.
func screen(cmd *cobra.Command, c *cli, opts *submitOptions) (submission.Payload, error) {
	pol, err := c.policy()
	if err != nil {
		return submission.Payload{}, err
	}
	n := pol.Normalizer()

	p := opts.payload.Sanitized()
	if err := pol.Validator(n).Validate(p); err != nil {
		var ve *submission.ValidationError
		if errors.As(err, &ve) {
			return p, errors.New(ve.Reason)
		}
		return p, err
	}

	location := opts.catalog
	if location == "" {
		location = c.cfg.CatalogFile
	}
	records, err := csvsource.NewSource(csvsource.NewLoader(location, nil)).Resources(cmd.Context())
	if err != nil {
		c.log.Warn("duplicate check skipped, catalog unavailable",
			logger.String("catalog", location),
			logger.Error(err))
		return p, nil
	}

	if dup := submission.NewDuplicateIndex(records, n).Find(p); dup != nil {
		return p, fmt.Errorf("already listed as %q (%s)", dup.Existing, dup.Reason)
	}
	return p, nil
}
