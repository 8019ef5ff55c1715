// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

// Command blogcli is a terminal client for the Inkgate API.
//
// It demonstrates the full client stack: the session store persists the
// token across invocations, the guard package gates commands by role and
// watches for token expiry, and the api package talks to the server.
//
// # Usage
//
//	blogcli register <username> <email> <password> [reader|author]
//	blogcli login <email> <password>
//	blogcli logout
//	blogcli whoami
//	blogcli subscribe
//	blogcli list [page]
//	blogcli read <post-id>
//	blogcli like <post-id>
//	blogcli dislike <post-id>
//	blogcli comments <post-id>
//	blogcli comment <post-id> <body>
//	blogcli publish <title> <content>
//	blogcli watch
//
// The API base URL is taken from INKGATE_API_URL (default http://localhost:8080).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/minhngo/inkgate/internal/client/api"
	"github.com/minhngo/inkgate/internal/client/guard"
	"github.com/minhngo/inkgate/internal/client/session"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("INKGATE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// ── 1. Session Restore ────────────────────────────────────────────────

	tokenStore, err := session.NewFileTokenStore(os.Getenv("INKGATE_SESSION_FILE"))
	fatalOn(err)

	sessionStore := session.NewStore(tokenStore)
	fatalOn(sessionStore.Hydrate())

	// An expired persisted token means the previous session is over.
	if sessionStore.TokenExpired(time.Now()) {
		_ = sessionStore.Clear()
		fmt.Fprintln(os.Stderr, "previous session expired, please log in again")
	}

	client := api.New(baseURL, func() string {
		return sessionStore.Snapshot().Token
	})

	app := &app{client: client, session: sessionStore}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// ── 2. Command Dispatch ───────────────────────────────────────────────

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if api.IsSubscriptionRequired(err) {
			fmt.Fprintln(os.Stderr, "subscription required: run `blogcli subscribe` first")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	client  *api.Client
	session *session.Store
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.session.Clear()
	case "whoami":
		return a.whoami()
	case "subscribe":
		return a.subscribe(ctx)
	case "list":
		return a.list(ctx, args)
	case "read":
		return a.read(ctx, args)
	case "like":
		return a.react(ctx, args, true)
	case "dislike":
		return a.react(ctx, args, false)
	case "comments":
		return a.comments(ctx, args)
	case "comment":
		return a.comment(ctx, args)
	case "publish":
		return a.publish(ctx, args)
	case "watch":
		return a.watch()
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: register <username> <email> <password> [reader|author]")
	}

	role := ""
	if len(args) > 3 {
		role = args[3]
	}

	user, err := a.client.Register(ctx, api.RegisterInput{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
		Role:     role,
	})
	if err != nil {
		return err
	}

	fmt.Printf("registered %s as %s\n", user.Username, user.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}

	result, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if err := a.session.SetCredentials(result.Token); err != nil {
		return err
	}

	fmt.Printf("logged in as %s (%s)\n", result.User.Username, result.User.Role)
	return nil
}

func (a *app) whoami() error {
	state := a.session.Snapshot()
	if !state.IsAuthenticated {
		fmt.Println("not logged in")
		return nil
	}

	fmt.Printf("user: %s\nrole: %s\n", state.Username, state.Role)

	now := time.Now()
	if state.SubscriptionActive(now) {
		fmt.Printf("subscription: active, %s remaining\n", state.SubscriptionExpiry.Sub(now).Round(time.Second))
	} else {
		fmt.Println("subscription: none")
	}

	return nil
}

func (a *app) subscribe(ctx context.Context) error {
	if !guard.CanAccess(sec.RoleReader, a.session.Snapshot()) {
		return fmt.Errorf("log in first")
	}

	result, err := a.client.Subscribe(ctx)
	if err != nil {
		return err
	}

	// The reissued token carries the new subscription claims.
	if err := a.session.SetCredentials(result.Token); err != nil {
		return err
	}

	state := a.session.Snapshot()
	if state.SubscriptionExpiry != nil {
		fmt.Printf("subscribed until %s\n", state.SubscriptionExpiry.Local().Format(time.Kitchen))
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		fmt.Sscanf(args[0], "%d", &page)
	}

	posts, meta, err := a.client.ListPosts(ctx, page, 20)
	if err != nil {
		return err
	}

	for _, post := range posts {
		fmt.Printf("%s  %-40s  +%d/-%d  by %s\n", post.ID, post.Title, post.Likes, post.Dislikes, post.AuthorName)
	}
	fmt.Printf("page %d of %d (%d posts)\n", meta.Page, meta.TotalPages, meta.Total)
	return nil
}

func (a *app) read(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: read <post-id>")
	}

	post, err := a.client.GetPost(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("# %s\nby %s, %s\n\n%s\n", post.Title, post.AuthorName, post.CreatedAt.Local().Format("2006-01-02"), post.Content)
	return nil
}

func (a *app) react(ctx context.Context, args []string, like bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: like|dislike <post-id>")
	}

	var tally *api.Tally
	var err error
	if like {
		tally, err = a.client.Like(ctx, args[0])
	} else {
		tally, err = a.client.Dislike(ctx, args[0])
	}

	if api.IsConflict(err) {
		fmt.Println("you already reacted this way")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("+%d / -%d\n", tally.Likes, tally.Dislikes)
	return nil
}

func (a *app) comments(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: comments <post-id>")
	}

	thread, meta, err := a.client.ListComments(ctx, args[0], 1, 50)
	if err != nil {
		return err
	}

	for _, entry := range thread {
		fmt.Printf("[%s] %s: %s\n", entry.CreatedAt.Local().Format("15:04"), entry.AuthorName, entry.Body)
	}
	fmt.Printf("%d comments\n", meta.Total)
	return nil
}

func (a *app) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: comment <post-id> <body>")
	}

	entry, err := a.client.CreateComment(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("comment %s posted\n", entry.ID)
	return nil
}

func (a *app) publish(ctx context.Context, args []string) error {
	// Client-side gate saves a round trip; the server enforces it anyway.
	if !guard.CanAccess(sec.RoleAuthor, a.session.Snapshot()) {
		return fmt.Errorf("publishing requires an author account")
	}

	if len(args) < 2 {
		return fmt.Errorf("usage: publish <title> <content>")
	}

	post, err := a.client.CreatePost(ctx, api.CreatePostInput{Title: args[0], Content: args[1]})
	if err != nil {
		return err
	}

	fmt.Printf("published %s (%s)\n", post.ID, post.Slug)
	return nil
}

// watch blocks until the session token expires, then logs out. It is the
// terminal equivalent of a web client's background logout hook.
func (a *app) watch() error {
	state := a.session.Snapshot()
	if !state.IsAuthenticated {
		return fmt.Errorf("not logged in")
	}

	fmt.Println("watching session, Ctrl-C to stop")

	watcher := guard.NewWatcher(a.session, constants.SubscriptionWatchInterval, func() {
		fmt.Println("session expired, logged out")
	})

	watcher.Start(context.Background())
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: blogcli <command> [args]

commands:
  register <username> <email> <password> [reader|author]
  login <email> <password>
  logout | whoami | subscribe | watch
  list [page] | read <post-id>
  like <post-id> | dislike <post-id>
  comments <post-id> | comment <post-id> <body>
  publish <title> <content>`)
}

func fatalOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
