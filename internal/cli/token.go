package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/utils"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token for a user (development)",
	Long: `Sign a bearer token with the configured JWT secret. Identity is
otherwise issued by an external provider; this exists for local testing.

  recyclepoints token --user donor-demo --role donor`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringP("user", "u", "", "User ID (token subject)")
	tokenCmd.Flags().StringP("role", "r", "", "Role: donor, collector or admin")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default JWT.ExpiresIn)")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("role")
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	roleFlag, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	role := models.Role(strings.ToUpper(roleFlag))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", roleFlag)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("JWT.Secret is not configured (set JWT_SECRET)")
	}
	if ttl <= 0 {
		ttl = time.Duration(cfg.JWT.ExpiresIn) * time.Second
	}

	token, err := utils.GenerateJWT(userID, role, cfg.JWT.Secret, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
