// Command storefront-client is a terminal front end for the food-ordering
// storefront: it drives the cart, auth and coupon engines against the
// storefront API and keeps state in the configured local store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"storefront-client/config"
	"storefront-client/logger"
	"storefront-client/models"
	"storefront-client/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, `storefront-client
Usage:
  storefront-client <cmd> [args]

Commands:
  register   -email <email> -password <pw> -name <full name> -username <username>
  login      -email <email> -password <pw>
  logout
  whoami
  cart add   -id <id> -name <name> -price <unit price> [-image <url>]
  cart rm    -id <id>
  cart qty   -id <id> -n <quantity>
  cart show
  cart clear
  coupon apply -code <code>
  coupon list
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fail(err)
	}
	defer log.Sync() //nolint:errcheck

	app, err := services.NewApp(cfg, log)
	if err != nil {
		fail(err)
	}
	defer app.Close()

	ctx := context.Background()
	args := flag.Args()

	switch args[0] {

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		name := fs.String("name", "", "full name")
		username := fs.String("username", "", "username")
		_ = fs.Parse(args[1:])
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "need -email and -password")
			os.Exit(1)
		}

		user, err := app.Auth.Register(ctx, models.RegisterRequest{
			Email:           *email,
			Password:        *password,
			ConfirmPassword: *password,
			FullName:        *name,
			Username:        *username,
		})
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args[1:])
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "need -email and -password")
			os.Exit(1)
		}

		user, err := app.Auth.Login(ctx, *email, *password)
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "logout":
		app.Auth.Logout()
		fmt.Println("logged out")

	case "whoami":
		if !app.Auth.IsAuthenticated() {
			fmt.Println("not logged in")
			return
		}
		printJSON(app.Auth.User())

	case "cart":
		if len(args) < 2 {
			usage()
		}
		runCart(app, args[1], args[2:])

	case "coupon":
		if len(args) < 2 {
			usage()
		}
		runCoupon(ctx, app, log, args[1], args[2:])

	default:
		usage()
	}
}

func runCart(app *services.App, cmd string, args []string) {
	switch cmd {

	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		name := fs.String("name", "", "product name")
		price := fs.Float64("price", 0, "unit price")
		image := fs.String("image", "", "image url")
		_ = fs.Parse(args)
		if *id == 0 || *name == "" {
			fmt.Fprintln(os.Stderr, "need -id and -name")
			os.Exit(1)
		}

		app.Cart.AddItem(models.CartItem{ID: *id, Name: *name, UnitPrice: *price, Image: *image})
		printJSON(app.Cart.Snapshot())

	case "rm":
		fs := flag.NewFlagSet("cart rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)

		app.Cart.RemoveItem(*id)
		printJSON(app.Cart.Snapshot())

	case "qty":
		fs := flag.NewFlagSet("cart qty", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		n := fs.Int("n", 1, "quantity")
		_ = fs.Parse(args)

		app.Cart.UpdateQuantity(*id, *n)
		printJSON(app.Cart.Snapshot())

	case "show":
		snap := app.Cart.Snapshot()
		for _, it := range snap.Items {
			fmt.Printf("%8d  %-30s  x%-3d  %12s\n", it.ID, it.Name, it.Quantity, formatVND(it.Subtotal()))
		}
		fmt.Printf("%d items, total %s\n", snap.ItemCount, formatVND(snap.Total))

	case "clear":
		app.Cart.Clear()
		fmt.Println("cart cleared")

	default:
		usage()
	}
}

func runCoupon(ctx context.Context, app *services.App, log *zap.Logger, cmd string, args []string) {
	checkout := app.NewCheckout()

	switch cmd {

	case "apply":
		fs := flag.NewFlagSet("coupon apply", flag.ExitOnError)
		code := fs.String("code", "", "coupon code")
		_ = fs.Parse(args)

		total := app.Cart.Total()
		coupon, err := checkout.Validate(ctx, *code, total)
		if err != nil {
			fail(err)
		}

		discount := checkout.Discount(total)
		log.Debug("discount computed", zap.Float64("total", total), zap.Float64("discount", discount))
		fmt.Printf("%s: -%s (order %s)\n", coupon.Code, formatVND(discount), formatVND(total))

	case "list":
		coupons, err := checkout.Available(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(coupons)

	default:
		usage()
	}
}

// formatVND renders an amount in đồng with thousands separators.
func formatVND(amount float64) string {
	s := strconv.FormatInt(int64(amount), 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + "₫"
}
