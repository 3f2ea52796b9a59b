package cmd

import (
	"fmt"

	"boleteria/application/users"
	"boleteria/common"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user, typically the first admin",
	RunE:  runUserCreate,
}

var userFlags struct {
	name           string
	identification string
	email          string
	password       string
	roles          []string
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.name, "name", "", "full name")
	f.StringVar(&userFlags.identification, "identification", "", "national id, 8 to 10 digits")
	f.StringVar(&userFlags.email, "email", "", "login email")
	f.StringVar(&userFlags.password, "password", "", "login password")
	f.StringSliceVar(&userFlags.roles, "role", []string{"ADMIN"}, "roles (ADMIN, USER)")
	for _, name := range []string{"name", "identification", "email", "password"} {
		_ = userCreateCmd.MarkFlagRequired(name)
	}
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	app, err := NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	input := users.CreateUserInput{
		Name:           userFlags.name,
		Identification: userFlags.identification,
		Email:          userFlags.email,
		Password:       userFlags.password,
	}
	for _, tag := range userFlags.roles {
		role, err := common.ParseRole(tag)
		if err != nil {
			return err
		}
		input.Roles = append(input.Roles, role)
	}

	if err := binding.Validator.ValidateStruct(input); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}

	user, err := app.Users().Create(cmd.Context(), input)
	if err != nil {
		return err
	}
	logger.Info("user created", zap.Uint("id", user.ID), zap.String("email", user.Email))
	fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s> %s\n", user.ID, user.Email, user.Roles.Join())
	return nil
}
