package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/infrastructure/postgres"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := ctx.ensurePool(cmd.Context())
			if err != nil {
				return err
			}
			applied, err := postgres.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Esquema al día")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "Aplicada: %s\n", name)
			}
			return nil
		},
	}
}

func newSeedStandsCommand(ctx *commandContext) *cobra.Command {
	var rows, positions, capacity int
	cmd := &cobra.Command{
		Use:   "seed-stands",
		Short: "Crea los stands faltantes de la grilla filas x posiciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = cfg.Stands.Rows
			}
			if !cmd.Flags().Changed("positions") {
				positions = cfg.Stands.Positions
			}
			if !cmd.Flags().Changed("capacity") {
				capacity = cfg.Stands.DefaultCapacity
			}
			uc, err := ctx.inventoryUseCase(cmd.Context())
			if err != nil {
				return err
			}
			created, err := uc.ProvisionStands(cmd.Context(), rows, positions, capacity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stands creados: %d (grilla %dx%d, capacidad %d)\n",
				created, rows, positions, capacity)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "Filas (A..Z); por defecto STAND_ROWS")
	cmd.Flags().IntVar(&positions, "positions", 0, "Posiciones por fila; por defecto STAND_POSITIONS")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Capacidad de losas por stand; por defecto STAND_DEFAULT_CAPACITY")
	return cmd
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Muestra la ocupación de los stands",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := ctx.inventoryUseCase(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := uc.GetStandSummary(cmd.Context())
			if err != nil {
				return err
			}
			stands, err := uc.ListStands(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"summary": summary, "stands": stands})
			}
			printSummary(out, ctx.printer(), summary, stands)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Salida en JSON")
	return cmd
}

func printSummary(out io.Writer, p *message.Printer, summary *dto.StandSummaryResponse, stands []dto.StandOccupancyResponse) {
	area, _ := summary.TotalArea.Round(2).Float64()
	p.Fprintf(out, "Capacidad: %d losas, usadas %d, libres %d (cobertura %s)\n",
		summary.TotalCapacity, summary.UsedCapacity, summary.AvailableCapacity, summary.Coverage.StringFixed(2))
	p.Fprintf(out, "Stands ocupados: %d de %d, área en stock %.2f ft²\n",
		summary.OccupiedStands, summary.TotalStands, area)

	if qualities := qualityTable(p, summary.QualityDistribution); qualities != "" {
		fmt.Fprintln(out, qualities)
	}
	fmt.Fprintln(out, standTable(p, stands))
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Genera el reporte PDF de ocupación",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := ctx.inventoryUseCase(cmd.Context())
			if err != nil {
				return err
			}
			pdf, err := uc.StandReport(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reporte escrito en %s (%d bytes)\n", output, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "stands.pdf", "Archivo de salida")
	return cmd
}
