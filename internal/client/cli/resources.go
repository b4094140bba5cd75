package cli

import (
	"context"
)

func (a *App) Profile(ctx context.Context) error {
	return a.dispatch("profile", a.session.Profile, printBody)
}

func (a *App) Items(ctx context.Context) error {
	return a.dispatch("items", a.session.Items, printBody)
}

// CreateItem prompts for a title and a description. An empty title is
// refused before anything is sent.
func (a *App) CreateItem(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		say("title is required")
		return errMissingInput
	}
	description, err := getMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	return a.dispatch("create", func(ctx context.Context) ([]byte, error) {
		return a.session.CreateItem(ctx, title, description)
	}, func(body []byte) {
		say("Created:", string(body))
	})
}

func printBody(body []byte) {
	say(string(body))
}
