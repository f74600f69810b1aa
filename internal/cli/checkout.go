package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
	"github.com/magabrotheeeer/bukafresh-client/internal/catalog"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	checkoutservice "github.com/magabrotheeeer/bukafresh-client/internal/services/checkout"
)

func (r *runner) packagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packages [name]",
		Short: "List grocery packages or show one by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), catalog.Packages())
			}
			p, ok := catalog.Find(args[0])
			if !ok {
				return apperr.New(apperr.KindNotFound, fmt.Sprintf("Package %q not found.", args[0]))
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

// parseAddOn разбирает add-on в виде productId:quantity[:price].
func parseAddOn(s string) (models.AddOn, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return models.AddOn{}, fmt.Errorf("invalid add-on %q: want productId:quantity[:price]", s)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return models.AddOn{}, fmt.Errorf("invalid add-on quantity in %q", s)
	}
	item := models.AddOn{ProductID: parts[0], Quantity: qty}
	if len(parts) == 3 {
		price, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || price < 0 {
			return models.AddOn{}, fmt.Errorf("invalid add-on price in %q", s)
		}
		item.Price = price
	}
	return item, nil
}

// checkoutResult — итог оформления для вывода.
type checkoutResult struct {
	Order        checkoutservice.Snapshot     `json:"order"`
	Confirmation checkoutservice.Confirmation `json:"confirmation"`
}

// checkoutCmd проходит мастер оформления за один вызов: пакет, частота,
// адрес, день доставки, затем создание аккаунта.
func (r *runner) checkoutCmd() *cobra.Command {
	var (
		pkgName   string
		frequency string
		addr      models.Address
		day       string
		addOns    []string
		account   models.AccountForm
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Choose a package, enter the delivery address and create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, ok := catalog.Find(pkgName)
			if !ok {
				return apperr.New(apperr.KindNotFound, fmt.Sprintf("Package %q not found.", pkgName))
			}
			items := make([]models.AddOn, 0, len(addOns))
			for _, s := range addOns {
				item, err := parseAddOn(s)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			var address *models.Address
			if addr != (models.Address{Label: addr.Label}) {
				if err := validate.New().Struct(addr); err != nil {
					return apperr.Validation(validate.Message(err), err)
				}
				address = &addr
			}
			pw, err := passwordFrom(account.Password)
			if err != nil {
				return err
			}
			account.Password = pw

			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				w := a.Checkout
				w.Reset()
				w.SelectPackage(pkg)
				if err := w.SetDeliveryFrequency(models.DeliveryFrequency(frequency)); err != nil {
					return err
				}
				for _, item := range items {
					w.AddAddOn(item)
				}
				if !w.CanProceed(account) {
					return apperr.Validation(checkoutservice.MsgNoPackage, nil)
				}
				w.NextStep()

				if address != nil {
					w.SetDeliveryAddress(address)
				}
				if !w.CanProceed(account) {
					return apperr.Validation(checkoutservice.MsgNoAddress, nil)
				}
				w.NextStep()

				if day != "" {
					w.SetDeliveryDay(day)
				}
				conf, err := w.Submit(ctx, account)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), checkoutResult{Order: w.Snapshot(), Confirmation: conf})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&pkgName, "package", "", "package name: Essentials, Standard or Premium")
	f.StringVar(&frequency, "frequency", string(models.DeliveryMonthly), "delivery frequency: weekly or monthly")
	f.StringSliceVar(&addOns, "addon", nil, "add-on as productId:quantity[:price], repeatable")
	f.StringVar(&addr.Label, "address-label", "home", "address label")
	f.StringVar(&addr.Street, "street", "", "street")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.State, "state", "", "state")
	f.StringVar(&addr.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&addr.Instructions, "instructions", "", "delivery instructions")
	f.StringVar(&day, "day", "", "delivery day (default "+checkoutservice.DefaultDeliveryDay+")")
	f.StringVar(&account.FirstName, "first-name", "", "first name")
	f.StringVar(&account.LastName, "last-name", "", "last name")
	f.StringVar(&account.Email, "email", "", "email")
	f.StringVar(&account.Password, "password", "", "password (or $"+passwordEnv+")")
	f.StringVar(&account.Phone, "phone", "", "phone, +234XXXXXXXXXX or 0XXXXXXXXXX")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}
