package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"support-system/internal/ticketlist"
)

// openByID загружает список с поиском по ID, чтобы тикет оказался на
// текущей странице: модальные окна работают только со строками списка.
func openByID(ctx context.Context, ticketID string) (*ticketlist.Controller, error) {
	c := newController(ctx)
	if _, err := c.FilterManager().SetField(ctx, ticketlist.FieldSearch, ticketID); err != nil {
		return nil, err
	}
	return c, nil
}

var editCmd = &cobra.Command{
	Use:   "edit <ticket-id>",
	Short: "Editar título, prioridad o categoría de un ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openByID(ctx, args[0])
		if err != nil {
			return err
		}
		if err := c.OpenEdit(args[0]); err != nil {
			return err
		}
		defer c.CloseModal()

		for _, f := range []struct {
			flag  string
			field ticketlist.EditField
		}{
			{"title", ticketlist.EditTitle},
			{"priority", ticketlist.EditPriority},
			{"category", ticketlist.EditCategory},
		} {
			if !cmd.Flags().Changed(f.flag) {
				continue
			}
			value, _ := cmd.Flags().GetString(f.flag)
			if err := c.SetEditField(f.field, value); err != nil {
				return err
			}
		}

		if err := c.SubmitEdit(ctx); err != nil {
			if errors.Is(err, ticketlist.ErrValidation) {
				return fmt.Errorf("%s", c.ModalError())
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s actualizado\n", args[0])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <ticket-id>",
	Short: "Eliminar un ticket (solo administradores)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		ctx := cmd.Context()
		c, err := openByID(ctx, args[0])
		if err != nil {
			return err
		}
		if err := c.OpenDelete(args[0]); err != nil {
			return err
		}
		if !yes {
			c.CloseModal()
			return fmt.Errorf("confirme con --yes para eliminar %s", args[0])
		}
		if err := c.ConfirmDelete(ctx); err != nil {
			c.CloseModal()
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s eliminado\n", args[0])
		return nil
	},
}

var qrCmd = &cobra.Command{
	Use:   "qr <ticket-id>",
	Short: "Mostrar la URL del historial del proyecto para el código QR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.OpenQR(args[0]); err != nil {
			return err
		}
		defer c.CloseModal()
		fmt.Fprintln(cmd.OutOrStdout(), ticketlist.QRTargetURL(cfg.Frontend.URL, c.Modal().ProjectID))
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <ticket-id>",
	Short: "Asignar un ticket a un ingeniero",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engineerID, _ := cmd.Flags().GetString("engineer")
		if engineerID == "" {
			// без флага инженер назначает тикет себе
			engineerID = session.UserID
		}
		ctx := cmd.Context()
		c, err := openByID(ctx, args[0])
		if err != nil {
			return err
		}
		if err := c.AssignTicket(ctx, args[0], engineerID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s asignado a %s\n", args[0], engineerID)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <ticket-id> <estado>",
	Short: "Cambiar el estado de un ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openByID(ctx, args[0])
		if err != nil {
			return err
		}
		if err := c.ChangeStatus(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s: estado %s\n", args[0], ticketlist.StatusLabel(args[1]))
		return nil
	},
}

func init() {
	assignCmd.Flags().String("engineer", "", "ID del ingeniero (por defecto, el usuario actual)")
	editCmd.Flags().String("title", "", "nuevo título")
	editCmd.Flags().String("priority", "", "nueva prioridad")
	editCmd.Flags().String("category", "", "nueva categoría")
	deleteCmd.Flags().Bool("yes", false, "confirmar la eliminación")
}
