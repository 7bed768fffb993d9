// Package cli provides the Cobra-based CLI for shopcart.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shopcart/cart"
	"shopcart/catalog"
	"shopcart/checkout"
	"shopcart/domain"
	"shopcart/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "shopcart",
		Short: "A storefront shopping cart and checkout tool",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject engine and clients
			if engine != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			lvlStr := strings.ToLower(viper.GetString("log-level"))
			lvl := slog.LevelInfo
			switch lvlStr {
			case "debug":
				lvl = slog.LevelDebug
			case "warn", "warning":
				lvl = slog.LevelWarn
			case "error":
				lvl = slog.LevelError
			}
			slog.SetDefault(slog.New(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
			))

			var err error
			cartStore, err = store.NewStore(
				viper.GetString("store"),
				viper.GetString("cart-file"),
			)
			if err != nil {
				return err
			}
			engine = cart.NewEngine(cartStore, viper.GetFloat64("shipping"), slog.Default())

			catalogClient, err = catalog.NewClient(viper.GetString("api-url"), nil)
			if err != nil {
				return err
			}
			checkoutSvc, err = checkout.NewService(viper.GetString("api-url"), nil, engine, slog.Default())
			return err
		},
	}

	cartStore     domain.CartStore
	engine        *cart.Engine
	catalogClient *catalog.Client
	checkoutSvc   *checkout.Service
)

func init() {
	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("shopcart> ")
				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				rootCmd.SetArgs(strings.Fields(line))
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				rootCmd.SetArgs(nil)
			}
		},
	}
	rootCmd.AddCommand(shellCmd)

	rootCmd.PersistentFlags().String("store", "file", "store backend: memory|file")
	rootCmd.PersistentFlags().String("cart-file", "data/cart-items.json", "cart file path")
	rootCmd.PersistentFlags().String("api-url", "http://localhost:3000/api/v1", "backend API base URL")
	rootCmd.PersistentFlags().Float64("shipping", 0, "flat shipping rate")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("cart-file", rootCmd.PersistentFlags().Lookup("cart-file"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("shipping", rootCmd.PersistentFlags().Lookup("shipping"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("SHOPCART")
	viper.AutomaticEnv()

	// add
	var addQuantity int
	addCmd := &cobra.Command{
		Use:   "add <productID>",
		Short: "Add a product to the cart (or replace its quantity)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := catalogClient.Get(ctx, args[0])
			if err != nil {
				slog.Error("catalog fetch failed", "product_id", args[0], "error", err)
				return err
			}
			start := time.Now()
			c, err := engine.AddOrUpdate(ctx, p, addQuantity)
			if err != nil {
				slog.Error("add failed", "product_id", p.ID, "error", err)
				return err
			}
			slog.Info("cart updated",
				"product_id", p.ID,
				"items", c.ItemCount(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			entry, _ := c.Find(p.ID)
			b, _ := json.MarshalIndent(entry, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	addCmd.Flags().IntVar(&addQuantity, "quantity", 1, "quantity (minimum 1)")
	rootCmd.AddCommand(addCmd)

	// remove
	removeCmd := &cobra.Command{
		Use:   "remove <productID>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := engine.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("removed")
			return nil
		},
	}
	rootCmd.AddCommand(removeCmd)

	// set-quantity
	setQuantityCmd := &cobra.Command{
		Use:   "set-quantity <productID> <quantity>",
		Short: "Set the quantity of a cart entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			c, err := engine.UpdateQuantity(context.Background(), args[0], qty)
			if err != nil {
				if domain.IsEntryNotFoundError(err) {
					fmt.Fprintln(os.Stderr, err)
					return nil
				}
				return err
			}
			entry, _ := c.Find(args[0])
			b, _ := json.MarshalIndent(entry, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	rootCmd.AddCommand(setQuantityCmd)

	// show
	var showOutput string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := engine.Load(context.Background())
			if showOutput == "json" {
				b, _ := json.MarshalIndent(c.Entries, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			if c.IsEmpty() {
				fmt.Println("cart is empty")
				return nil
			}
			for _, e := range c.Entries {
				fmt.Printf("%s | %s | %.2f | %.0f%% | %d\n",
					e.ProductID, e.Title, e.UnitPrice, e.DiscountPercent, e.Quantity)
			}
			fmt.Printf("%d items\n", c.ItemCount())
			return nil
		},
	}
	showCmd.Flags().StringVar(&showOutput, "output", "", "output format")
	rootCmd.AddCommand(showCmd)

	// summary
	var summaryOutput string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the priced order summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := engine.Summary(context.Background()).Rounded()
			if summaryOutput == "json" {
				b, _ := json.MarshalIndent(s, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			for _, l := range s.Lines {
				fmt.Printf("%s | %s | %.2f x %d | %.2f\n",
					l.ProductID, l.Title, l.DiscountedUnitPrice, l.Quantity, l.LineTotal)
			}
			fmt.Printf("subtotal: %.2f\n", s.Subtotal)
			fmt.Printf("shipping: %.2f\n", s.Shipping)
			fmt.Printf("total: %.2f\n", s.GrandTotal)
			return nil
		},
	}
	summaryCmd.Flags().StringVar(&summaryOutput, "output", "", "output format")
	rootCmd.AddCommand(summaryCmd)

	// clear
	var force bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Print("Empty the cart? (y/N): ")
				var resp string
				if _, err := fmt.Scanln(&resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Println("aborted")
					return nil
				}
			}
			if err := engine.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(clearCmd)

	// checkout
	var addr checkout.ShippingAddress
	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr.Address1 == "" {
				return errors.New("--address1 required")
			}
			conf, err := checkoutSvc.Submit(context.Background(), addr)
			if err != nil {
				if errors.Is(err, checkout.ErrEmptyCart) {
					fmt.Println("cart is empty, nothing to order")
					return nil
				}
				slog.Error("checkout failed", "error", err)
				return err
			}
			if conf.OrderID != "" {
				fmt.Printf("order created: %s\n", conf.OrderID)
			} else {
				fmt.Println("order created")
			}
			if conf.PaymentURL != "" {
				fmt.Printf("complete payment at: %s\n", conf.PaymentURL)
			}
			return nil
		},
	}
	checkoutCmd.Flags().StringVar(&addr.Address1, "address1", "", "shipping address line 1")
	checkoutCmd.Flags().StringVar(&addr.Address2, "address2", "", "shipping address line 2")
	checkoutCmd.Flags().StringVar(&addr.City, "city", "", "city")
	checkoutCmd.Flags().StringVar(&addr.Zip, "zip", "", "zip code")
	checkoutCmd.Flags().StringVar(&addr.Country, "country", "", "country")
	checkoutCmd.Flags().StringVar(&addr.Phone, "phone", "", "phone number")
	rootCmd.AddCommand(checkoutCmd)

	// product
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Browse the catalog",
	}
	productGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := catalogClient.Get(context.Background(), args[0])
			if err != nil {
				var apiErr *catalog.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
					fmt.Fprintln(os.Stderr, err)
					return nil
				}
				return err
			}
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	productListCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := catalogClient.List(context.Background())
			if err != nil {
				return err
			}
			for _, p := range out {
				fmt.Printf("%s | %s | %.2f | %.0f%% | %d in stock\n",
					p.ID, p.Title, p.Price, p.Discount, p.CountInStock)
			}
			return nil
		},
	}
	productCmd.AddCommand(productGetCmd, productListCmd)
	rootCmd.AddCommand(productCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
