package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/modules/contacts"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/modules/schemes"
	"silicon.com/app/internal/views"
	"silicon.com/app/pkg/view"
)

var productColumns = []views.Column[backend.Product]{
	{Header: "ID", Cell: func(p backend.Product) string { return p.ID }},
	{Header: "Title", Cell: func(p backend.Product) string { return p.Title }},
	{Header: "Category", Cell: func(p backend.Product) string { return p.Category }},
	{Header: "Models", Cell: func(p backend.Product) string { return strconv.Itoa(len(p.Models)) }},
	{Header: "From", Cell: func(p backend.Product) string { return view.ProductRow(p).From }},
	{Header: "Status", Cell: func(p backend.Product) string { return p.Status }},
}

var contactColumns = []views.Column[backend.Contact]{
	{Header: "ID", Cell: func(c backend.Contact) string { return c.ID }},
	{Header: "Name", Cell: func(c backend.Contact) string { return c.Name }},
	{Header: "Email", Cell: func(c backend.Contact) string { return c.Email }},
	{Header: "Message", Cell: func(c backend.Contact) string { return view.ContactRow(c).Message }},
	{Header: "Status", Cell: func(c backend.Contact) string { return c.Status }},
	{Header: "Received", Cell: func(c backend.Contact) string { return view.DateTime(c.CreatedAt) }},
}

var schemeColumns = []views.Column[backend.ProductSchemes]{
	{Header: "Product", Cell: func(s backend.ProductSchemes) string { return s.ProductID }},
	{Header: "Title", Cell: func(s backend.ProductSchemes) string { return s.Title }},
	{Header: "On sale", Cell: func(s backend.ProductSchemes) string { return view.SchemeRow(s).OnSale }},
	{Header: "Best seller", Cell: func(s backend.ProductSchemes) string { return view.SchemeRow(s).BestSeller }},
	{Header: "New arrival", Cell: func(s backend.ProductSchemes) string { return view.SchemeRow(s).NewArrival }},
	{Header: "Featured", Cell: func(s backend.ProductSchemes) string { return view.SchemeRow(s).Featured }},
}

func productLoader(svc *products.Service, p backend.ListParams) *views.Loader[backend.Product] {
	snap := views.NewSnapshot(func(p backend.Product) string { return p.ID })
	return views.NewLoader(snap, func(ctx context.Context) ([]backend.Product, error) {
		return svc.List(ctx, p)
	})
}

func productsCmd(a *app) *cobra.Command {
	var params backend.ListParams
	cmd := &cobra.Command{Use: "products", Short: "Browse products and switch their status"}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the product table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			l := productLoader(products.NewService(client), params)
			defer l.Close()
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), views.Table(l.Snapshot().Items(), productColumns))
			return nil
		},
	}
	list.Flags().StringVar(&params.Category, "category", "", "filter by category")
	list.Flags().StringVar(&params.Status, "status", "", "active or inactive")
	list.Flags().StringVar(&params.Query, "q", "", "search text")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print every detail of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			l := productLoader(products.NewService(client), backend.ListParams{})
			defer l.Close()
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}
			d := views.NewDialog(l.Snapshot())
			d.OnOpen = func(p backend.Product) {
				fmt.Fprint(cmd.OutOrStdout(), views.Detail(p.Title, view.ProductDetail(p)))
			}
			_, err = d.Open(args[0])
			return err
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a product between active and inactive, then reprint the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			svc := products.NewService(client)
			l := productLoader(svc, backend.ListParams{})
			defer l.Close()

			var next string
			err = views.Toggle(cmd.Context(), l, func(ctx context.Context) error {
				var err error
				next, err = svc.Toggle(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			a.log.Info("product_status_changed", zap.String("product_id", args[0]), zap.String("status", next))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is now %s.\n", args[0], next)
			fmt.Fprint(out, views.Table(l.Snapshot().Items(), productColumns))
			return nil
		},
	}

	cmd.AddCommand(list, show, toggle)
	return cmd
}

func contactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "contacts", Short: "Contact-form messages"}
	loader := func(svc *contacts.Service) *views.Loader[backend.Contact] {
		snap := views.NewSnapshot(func(c backend.Contact) string { return c.ID })
		return views.NewLoader(snap, svc.List)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print received messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			l := loader(contacts.NewService(client, contacts.Notify{}, a.log))
			defer l.Close()
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), views.Table(l.Snapshot().Items(), contactColumns))
			return nil
		},
	}

	var message string
	reply := &cobra.Command{
		Use:   "reply <id>",
		Short: "Answer a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			svc := contacts.NewService(client, contacts.Notify{}, a.log)
			l := loader(svc)
			defer l.Close()
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}

			d := views.NewDialog(l.Snapshot())
			d.OnOpen = func(c backend.Contact) {
				fmt.Fprint(cmd.OutOrStdout(), views.Detail("Message from "+c.Name, view.ContactDetail(c)))
			}
			if _, err := d.Open(args[0]); err != nil {
				return err
			}
			defer d.Close()

			if message == "" {
				err := huh.NewForm(
					huh.NewGroup(huh.NewText().Title("Reply").Value(&message).Validate(notBlank)),
				).Run()
				if err != nil {
					return err
				}
			}
			if err := svc.Reply(cmd.Context(), args[0], contacts.ReplyInput{Message: message}); err != nil {
				return err
			}
			a.log.Info("contact_replied", zap.String("contact_id", args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), "Reply sent.")
			return nil
		},
	}
	reply.Flags().StringVar(&message, "message", "", "reply text (prompted when empty)")

	cmd.AddCommand(list, reply)
	return cmd
}

func schemesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "schemes", Short: "Sales schemes: on sale, best seller, new arrival, featured"}
	loader := func(svc *schemes.Service) *views.Loader[backend.ProductSchemes] {
		snap := views.NewSnapshot(func(s backend.ProductSchemes) string { return s.ProductID })
		return views.NewLoader(snap, svc.List)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print scheme flags per product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			l := loader(schemes.NewService(client))
			defer l.Close()
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), views.Table(l.Snapshot().Items(), schemeColumns))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <productId> [scheme]",
		Short: "Flip one scheme flag of a product, then reprint the table",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			scheme := ""
			if len(args) == 2 {
				scheme = args[1]
			} else {
				opts := make([]huh.Option[string], 0, len(schemes.All))
				for _, s := range schemes.All {
					opts = append(opts, huh.NewOption(s, s))
				}
				err := huh.NewForm(
					huh.NewGroup(huh.NewSelect[string]().Title("Scheme").Options(opts...).Value(&scheme)),
				).Run()
				if err != nil {
					return err
				}
			}

			svc := schemes.NewService(client)
			l := loader(svc)
			defer l.Close()
			var enabled bool
			err = views.Toggle(cmd.Context(), l, func(ctx context.Context) error {
				var err error
				enabled, err = svc.Toggle(ctx, args[0], scheme)
				return err
			})
			if err != nil {
				return err
			}
			a.log.Info("scheme_changed", zap.String("product_id", args[0]), zap.String("scheme", scheme), zap.Bool("enabled", enabled))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s: %t\n", args[0], scheme, enabled)
			fmt.Fprint(out, views.Table(l.Snapshot().Items(), schemeColumns))
			return nil
		},
	}

	cmd.AddCommand(list, toggle)
	return cmd
}
