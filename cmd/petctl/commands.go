package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/petgateway/petgateway/pkg/credentials"
	"github.com/petgateway/petgateway/pkg/model"
)

// sessionSummary is what register and login print. The secret key is
// never printed.
type sessionSummary struct {
	Username   string    `json:"username"`
	IdentityID string    `json:"identityId"`
	AccessKey  string    `json:"accessKey"`
	Expiration time.Time `json:"expiration"`
}

func summarize(p *credentials.SessionProvider) sessionSummary {
	return sessionSummary{
		Username:   p.Username(),
		IdentityID: p.IdentityID(),
		AccessKey:  p.AccessKey(),
		Expiration: p.Expiration(),
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "register",
		Short:   "Register a new account and obtain session credentials",
		Example: "petctl register --username alice --password s3cret",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.sessionProvider()
			if err != nil {
				return err
			}
			if err := provider.RegisterUser(cmd.Context()); err != nil {
				return err
			}
			return a.print(summarize(provider))
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and show the issued session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.sessionProvider()
			if err != nil {
				return err
			}
			if err := provider.Login(cmd.Context()); err != nil {
				return err
			}
			return a.print(summarize(provider))
		},
	}
}

func newPetsCmd(a *app) *cobra.Command {
	petsCmd := &cobra.Command{
		Use:   "pets",
		Short: "List, create and fetch pets",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.signedClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := c.PetsGet(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(resp)
		},
	}

	getCmd := &cobra.Command{
		Use:     "get PET_ID",
		Short:   "Fetch one pet",
		Example: "petctl pets get 01HZX3J4K5M6N7P8Q9R0S1T2V3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.signedClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := c.PetsPetIDGet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(resp)
		},
	}

	var req model.CreatePetRequest
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a pet",
		Example: "petctl pets create --type dog --name Rex --age 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.signedClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := c.PetsPost(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return a.print(resp)
		},
	}
	createCmd.Flags().StringVar(&req.PetType, "type", "", "Pet type, e.g. dog")
	createCmd.Flags().StringVar(&req.PetName, "name", "", "Pet name")
	createCmd.Flags().IntVar(&req.PetAge, "age", 0, "Pet age in years")
	_ = createCmd.MarkFlagRequired("type")

	petsCmd.AddCommand(listCmd, getCmd, createCmd)
	return petsCmd
}
