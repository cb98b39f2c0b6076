// Command goadmin serves CRUD admin pages from YAML form definitions, lints
// definition files, and renders single forms to HTML.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-admin/components/crud"
	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
	"github.com/goliatone/go-admin/pkg/renderers/html"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "goadmin",
		Short:         "Configuration-driven CRUD admin interface",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(serveCommand(), lintCommand(), renderCommand())
	return root
}

func serveCommand() *cobra.Command {
	var (
		addr        string
		definitions string
		basePath    string
		watch       bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve admin pages for every form definition in a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logrus.New()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			forms, err := loadDefinitions(definitions)
			if err != nil {
				return err
			}
			if len(forms) == 0 {
				return fmt.Errorf("no form definitions found in %s", definitions)
			}

			registry := render.NewRegistry()
			htmlRenderer, err := html.New()
			if err != nil {
				return err
			}
			registry.MustRegister(htmlRenderer)

			component := crud.New(crud.WithRenderers(registry), crud.WithLogger(logger))
			for name, form := range forms {
				if err := component.Register(crud.Resource{
					Name:  name,
					Form:  form,
					Store: crud.NewMemoryStore(),
				}); err != nil {
					return err
				}
				logger.WithField("resource", name).Info("resource registered")
			}

			router := mux.NewRouter()
			if err := component.Routes(router, basePath); err != nil {
				return err
			}

			if watch {
				watcher, err := descriptor.NewWatcher(func(path string, form descriptor.Form, err error) {
					name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					if err != nil {
						logger.WithError(err).WithField("path", path).Warn("definition reload failed; keeping last good form")
						return
					}
					if err := component.UpdateForm(name, form); err != nil {
						logger.WithError(err).WithField("resource", name).Warn("definition reload rejected")
						return
					}
					logger.WithField("resource", name).Info("definition reloaded")
				})
				if err != nil {
					return err
				}
				defer watcher.Close()
				for name := range forms {
					for _, ext := range []string{".yaml", ".yml"} {
						path := filepath.Join(definitions, name+ext)
						if _, statErr := os.Stat(path); statErr == nil {
							if err := watcher.Watch(path); err != nil {
								return err
							}
							break
						}
					}
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("addr", addr).Info("admin server listening")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&definitions, "definitions", "./forms", "directory of YAML form definitions")
	cmd.Flags().StringVar(&basePath, "base-path", "/admin", "URL prefix for admin routes")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload form definitions on file change")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func lintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>...",
		Short: "Validate form definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if _, err := descriptor.LoadFile(path); err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed {
				return errors.New("lint failed")
			}
			return nil
		},
	}
}

func renderCommand() *cobra.Command {
	var (
		output    string
		openapi   string
		operation string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a form definition to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				form descriptor.Form
				err  error
			)
			switch {
			case openapi != "":
				data, readErr := os.ReadFile(openapi)
				if readErr != nil {
					return readErr
				}
				form, err = descriptor.FromOpenAPI(cmd.Context(), data, operation)
			case len(args) == 1:
				form, err = descriptor.LoadFile(args[0])
			default:
				return errors.New("pass a definition file or --openapi with --operation")
			}
			if err != nil {
				return err
			}

			renderer, err := html.New()
			if err != nil {
				return err
			}
			body, err := renderer.RenderForm(cmd.Context(), form, render.Options{})
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, body, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "form written to %s\n", output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&openapi, "openapi", "", "OpenAPI document to derive the form from")
	cmd.Flags().StringVar(&operation, "operation", "", "operation ID within the OpenAPI document")
	return cmd
}

// loadDefinitions reads every .yaml/.yml file in dir, keyed by file stem.
func loadDefinitions(dir string) (map[string]descriptor.Form, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	forms := make(map[string]descriptor.Form)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		form, err := descriptor.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		forms[strings.TrimSuffix(entry.Name(), ext)] = form
	}
	return forms, nil
}
