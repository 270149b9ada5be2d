package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recall/internal/config"
	"recall/internal/secret"
)

func main() {
	log.SetFlags(0)

	app := NewApp()
	root := newRootCmd(app)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	var sessionName string

	root := &cobra.Command{
		Use:          "recall",
		Short:        "Chat with a local language model, with persistent per-session memory",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.startup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), app, sessionName)
		},
	}
	root.Flags().StringVarP(&sessionName, "session", "s", "default", "session to open")

	root.AddCommand(newSessionsCmd(app))
	root.AddCommand(newPromptsCmd(app))
	root.AddCommand(newConfigCmd(app))
	root.AddCommand(newKeyCmd(app))
	return root
}

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		RunE: func(c *cobra.Command, args []string) error {
			sessions, err := app.manager.Sessions(c.Context())
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Printf("%s  %s  (created %s)\n", s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "new <name>",
		Short: "Create a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			sess, err := app.manager.CreateSession(c.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created session %s (%s)\n", sess.Name, sess.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			sess, err := app.resolveSession(c.Context(), args[0])
			if err != nil {
				return err
			}
			newName, err := app.manager.RenameSession(c.Context(), sess.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("renamed session to %s\n", newName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a session and its history (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			sess, err := app.resolveSession(c.Context(), args[0])
			if err != nil {
				return err
			}
			return app.manager.DeleteSession(c.Context(), sess.ID)
		},
	})

	return cmd
}

func newPromptsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage agent prompt presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available agent prompts",
		RunE: func(c *cobra.Command, args []string) error {
			active := app.cfg.Agent.PromptName
			for _, name := range app.prompts.List() {
				marker := " "
				if name == active {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
			return nil
		},
	})
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := *app.cfg
			if cfg.LLM.APIKey != "" {
				cfg.LLM.APIKey = secret.MaskKey(cfg.LLM.APIKey)
			}
			if cfg.FallbackLLM != nil && cfg.FallbackLLM.APIKey != "" {
				fb := *cfg.FallbackLLM
				fb.APIKey = secret.MaskKey(fb.APIKey)
				cfg.FallbackLLM = &fb
			}
			data, err := json.MarshalIndent(&cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			fmt.Println("config file:", app.cfgLoader.FilePath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and persist it",
		Long: "Keys: provider, model, base-url, timeout, max-history, summary-threshold,\n" +
			"auto-summarize, prompt, temperature, top-p, max-tokens, context-window",
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cfg := app.cfgLoader.Get()
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			return app.cfgLoader.Save(cfg)
		},
	})

	return cmd
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "provider":
		cfg.LLM.Provider = value
	case "model":
		cfg.LLM.Model = value
	case "base-url":
		cfg.LLM.BaseURL = value
	case "prompt":
		cfg.Agent.PromptName = value
	case "timeout":
		return setInt(&cfg.LLM.TimeoutSecs, value, 0)
	case "max-history":
		return setInt(&cfg.Memory.MaxHistory, value, 0)
	case "summary-threshold":
		return setInt(&cfg.Memory.SummaryThreshold, value, 1)
	case "max-tokens":
		return setInt(&cfg.Agent.MaxTokens, value, 0)
	case "context-window":
		return setInt(&cfg.Agent.ContextWindow, value, 0)
	case "auto-summarize":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto-summarize wants true or false: %w", err)
		}
		cfg.Memory.AutoSummarize = b
	case "temperature":
		return setFloat(&cfg.Agent.Temperature, value)
	case "top-p":
		return setFloat(&cfg.Agent.TopP, value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setInt(dst *int, value string, min int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	if n < min {
		return fmt.Errorf("value must be at least %d", min)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func newKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the provider API key (stored in the OS keychain)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Store the API key for remote providers",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return secret.Set(secret.NameAPIKey, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		RunE: func(c *cobra.Command, args []string) error {
			return secret.Delete(secret.NameAPIKey)
		},
	})
	return cmd
}
