package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"support-system/internal/integrations/supportapi"
	"support-system/internal/ticketlist"
	"support-system/pkg/config"
	applogger "support-system/pkg/logger"
)

var (
	apiURL     string
	apiToken   string
	jsonOutput bool
	perPage    int

	cfg     *config.Config
	logger  *zap.Logger
	api     *supportapi.Provider
	session ticketlist.Session
)

var rootCmd = &cobra.Command{
	Use:           "ticketctl",
	Short:         "Cliente de línea de comandos para los tickets de soporte",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.New()
		logger = applogger.NewLogger(cfg.Log.Level, cfg.Log.File).Named("ticketctl")

		if apiURL == "" {
			apiURL = cfg.TicketList.APIURL
		}
		if apiToken == "" {
			apiToken = cfg.TicketList.APIToken
		}
		if perPage <= 0 {
			perPage = cfg.TicketList.PerPage
		}

		var err error
		session, err = sessionFromToken(apiToken)
		if err != nil {
			return err
		}
		api = supportapi.New(apiURL, apiToken, logger, supportapi.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Sesión expirada: genere un nuevo token.")
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "URL del servidor (por defecto SUPPORT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "token de acceso (por defecto SUPPORT_API_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "salida en JSON")
	rootCmd.PersistentFlags().IntVar(&perPage, "per-page", 0, "tickets por página (por defecto TICKETS_PER_PAGE)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
