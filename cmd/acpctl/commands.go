package main

import (
	"context"
	"errors"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/dto/responses"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"github.com/spf13/cobra"
)

var errPatientRequired = errors.New("--patient is required")

func queriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "List the ACP queries for a patient",
		RunE: withApp(func(ctx context.Context, app *cliApp, cmd *cobra.Command) error {
			patientID, _ := cmd.Flags().GetString("patient")
			if patientID == "" {
				return errPatientRequired
			}
			return printJSON(cmd.OutOrStdout(), models.AcpQueriesResponse{
				PatientID: patientID,
				Queries:   models.ViewQueries(app.queries.Catalog(patientID), false),
			})
		}),
	}
	cmd.Flags().String("patient", "", "patient logical id")
	return cmd
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run every ACP query, cache the results and resolve references",
		RunE: withApp(func(ctx context.Context, app *cliApp, cmd *cobra.Command) error {
			patientID, _ := cmd.Flags().GetString("patient")
			if patientID == "" {
				return errPatientRequired
			}
			queries, resolve, err := app.queries.ExecuteAll(ctx, patientID, app.serverURL)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.RunAcpQueriesResponse{
				PatientID: patientID,
				ServerURL: app.serverURL,
				Queries:   models.ViewQueries(queries, true),
				Resolve:   resolve,
			})
		}),
	}
	cmd.Flags().String("patient", "", "patient logical id")
	return cmd
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the references of resources read from a file",
		RunE: withApp(func(ctx context.Context, app *cliApp, cmd *cobra.Command) error {
			path, _ := cmd.Flags().GetString("file")
			resources, err := readResources(path)
			if err != nil {
				return err
			}
			depth, _ := cmd.Flags().GetInt("depth")
			result := app.queries.ResolveResources(ctx, app.serverURL, depth, resources)
			return printJSON(cmd.OutOrStdout(), models.NewResolveReferencesResponse(result))
		}),
	}
	cmd.Flags().String("file", "-", "Bundle, resource array or single resource; - reads stdin")
	return cmd
}

func overviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Reconcile the cached resources into the integrated ACP view",
		RunE: withApp(func(ctx context.Context, app *cliApp, cmd *cobra.Command) error {
			patientID, _ := cmd.Flags().GetString("patient")
			if patientID == "" {
				return errPatientRequired
			}
			// The memory cache starts empty, so fetch first unless told otherwise.
			if skip, _ := cmd.Flags().GetBool("skip-fetch"); !skip {
				if _, _, err := app.queries.ExecuteAll(ctx, patientID, app.serverURL); err != nil {
					return err
				}
			}
			dataset, err := app.overview.LoadIntegratedData(ctx, &fhir.Patient{Id: &patientID})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dataset)
		}),
	}
	cmd.Flags().String("patient", "", "patient logical id")
	cmd.Flags().Bool("skip-fetch", false, "only read what is already cached")
	return cmd
}

func lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a patient id by business identifier",
		RunE: withApp(func(ctx context.Context, app *cliApp, cmd *cobra.Command) error {
			system, _ := cmd.Flags().GetString("system")
			value, _ := cmd.Flags().GetString("value")
			if system == "" || value == "" {
				return errors.New("--system and --value are required")
			}
			patientID, err := app.queries.FindPatientIDByIdentifier(ctx, app.serverURL, system, value)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), responses.PatientLookup{
				PatientID: patientID,
				Found:     patientID != "",
			})
		}),
	}
	cmd.Flags().String("system", "", "identifier system")
	cmd.Flags().String("value", "", "identifier value")
	return cmd
}
