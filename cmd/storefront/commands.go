package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/apiclient"
	"github.com/njprem/storefront/internal/countdown"
	"github.com/njprem/storefront/internal/credentials"
	"github.com/njprem/storefront/internal/favorites"
	"github.com/njprem/storefront/internal/tui"
)

const usage = `usage: storefront <command> [arguments]

commands:
  login <email> <password>   sign in and remember the session token
  logout                     end the session and forget the token
  favorites                  list favorite product ids
  toggle <productId>         add or remove a product from favorites
  cancel <orderId>           open the cancel countdown for an order
`

var errUsage = errors.New("usage")

type app struct {
	api   *apiclient.Client
	store credentials.Store
	out   io.Writer
	log   zerolog.Logger

	// newScreen is swapped in tests.
	newScreen func() (tcell.Screen, error)
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}
	rest := fs.Args()[1:]

	switch fs.Arg(0) {
	case "login":
		if len(rest) != 2 {
			return errUsage
		}
		return a.login(ctx, rest[0], rest[1])
	case "logout":
		return a.logout(ctx)
	case "favorites":
		return a.listFavorites(ctx)
	case "toggle":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid product id %q", rest[0])
		}
		return a.toggle(ctx, id)
	case "cancel":
		if len(rest) != 1 {
			return errUsage
		}
		return a.cancel(ctx, rest[0])
	default:
		return errUsage
	}
}

func (a *app) login(ctx context.Context, email, password string) error {
	session, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.store.Set(credentials.AuthTokenKey, session.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", session.User.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		a.log.Debug().Err(err).Msg("server rejected logout, forgetting token anyway")
	}
	if err := a.store.Delete(credentials.AuthTokenKey); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) listFavorites(ctx context.Context) error {
	records, err := favorites.FromAPI(a.api).FetchMembership(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(a.out, r.ProductID)
	}
	return nil
}

func (a *app) toggle(ctx context.Context, productID int64) error {
	toggler := favorites.NewToggler(favorites.FromAPI(a.api), a.log)
	action, err := toggler.Toggle(ctx, productID)
	if err != nil {
		return err
	}
	switch action {
	case favorites.ActionAdded:
		fmt.Fprintf(a.out, "Added product %d to favorites\n", productID)
	case favorites.ActionRemoved:
		fmt.Fprintf(a.out, "Removed product %d from favorites\n", productID)
	}
	return nil
}

func (a *app) cancel(ctx context.Context, orderID string) error {
	order, err := a.api.Order(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != "placed" {
		fmt.Fprintf(a.out, "Order %s is %s\n", order.ID, order.Status)
		return nil
	}
	createdAt, err := countdown.ParseCreatedAt(order.CreatedAt)
	if err != nil {
		return fmt.Errorf("order %s: %w", order.ID, err)
	}

	newScreen := a.newScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()

	title := fmt.Sprintf("Order %s placed %s", order.ID, createdAt.Local().Format(time.Kitchen))
	view := tui.NewCancelView(screen, title, a.log)

	var cancelled atomic.Bool
	action := func(ctx context.Context) error {
		if _, err := a.api.CancelOrder(ctx, order.ID); err != nil {
			view.SetStatus("Could not cancel: " + describe(err))
			return err
		}
		cancelled.Store(true)
		view.SetStatus("Order cancelled. Press q to exit.")
		return nil
	}

	button := countdown.NewButton(createdAt, action,
		countdown.WithWindow(cancelWindow(order, createdAt)),
		countdown.WithLabel("Cancel order"),
		countdown.WithOnChange(view.Changed),
		countdown.WithLogger(a.log),
	)
	if err := view.Run(ctx, button); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if cancelled.Load() {
		fmt.Fprintf(a.out, "Order %s cancelled\n", order.ID)
	}
	return nil
}

// cancelWindow prefers the deadline the server reports so the countdown
// matches what the server will accept.
func cancelWindow(order *apiclient.Order, createdAt time.Time) time.Duration {
	if order.CancelDeadline.IsZero() {
		return countdown.DefaultWindow
	}
	if w := order.CancelDeadline.Sub(createdAt); w > 0 {
		return w
	}
	return countdown.DefaultWindow
}

func describe(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
