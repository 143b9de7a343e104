package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/spf13/cobra"
)

type SeedOptions struct {
	Employees     int
	AdminEmail    string
	AdminPassword string
	Migrate       bool
}

var sopts SeedOptions

var rootCmd = &cobra.Command{
	Use:   "seed [flags]",
	Short: "Populate the attendance database with fake employees and an admin account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), sopts)
	},
}

func init() {
	rootCmd.Flags().IntVarP(&sopts.Employees, "employees", "n", 25, "Number of fake employees to create")
	rootCmd.Flags().StringVar(&sopts.AdminEmail, "admin-email", "", "Create an ADMIN user with this email")
	rootCmd.Flags().StringVar(&sopts.AdminPassword, "admin-password", "", "Password for the admin user")
	rootCmd.Flags().BoolVarP(&sopts.Migrate, "migrate", "m", false, "Apply migrations before seeding")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error executing command: %s", err)
	}
}

func Run(ctx context.Context, opts SeedOptions) error {
	if opts.AdminEmail != "" && opts.AdminPassword == "" {
		return errors.New("--admin-password is required with --admin-email")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if opts.Migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	userRepo := postgresql.NewUserRepository(db)

	if opts.AdminEmail != "" {
		if err := seedAdmin(ctx, userRepo, userService.NewUserService(userRepo, cfg.Location()), opts); err != nil {
			return err
		}
	}

	created, err := seedEmployees(ctx, employeeService.NewEmployeeService(postgresql.NewEmployeeRepository(db)), opts.Employees)
	if err != nil {
		return err
	}

	slog.Info("Seed complete", "employees", created, "elapsed", time.Since(start).String())
	return nil
}

func seedAdmin(ctx context.Context, repo user.UserRepository, svc user.UserService, opts SeedOptions) error {
	admin, err := svc.Create(ctx, user.CreateUserRequest{
		FirstName:   "System",
		LastName:    "Administrator",
		Email:       opts.AdminEmail,
		PhoneNumber: fakePhoneNumber(),
		Password:    opts.AdminPassword,
	})
	if errors.Is(err, user.ErrEmailExists) {
		existing, getErr := repo.GetByEmail(ctx, opts.AdminEmail)
		if getErr != nil {
			return fmt.Errorf("load existing admin: %w", getErr)
		}
		admin.ID = existing.ID
	} else if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if _, err := repo.UpdateRole(ctx, admin.ID, user.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	slog.Info("Admin user ready", "email", opts.AdminEmail)
	return nil
}

// seedEmployees skips fakes whose email is already taken.
func seedEmployees(ctx context.Context, svc employee.EmployeeService, n int) (int, error) {
	created := 0
	for range n {
		emp, err := svc.Create(ctx, fakeEmployee())
		switch {
		case errors.Is(err, employee.ErrEmailExists), errors.Is(err, employee.ErrEmployeeIdentifierExists):
			slog.Warn("Skipping fake employee", "error", err)
			continue
		case err != nil:
			return created, fmt.Errorf("create employee: %w", err)
		}
		created++
		slog.Debug("Employee created", "identifier", emp.EmployeeIdentifier)
	}
	return created, nil
}

func fakeEmployee() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:   gofakeit.FirstName(),
		LastName:    gofakeit.LastName(),
		Email:       gofakeit.Email(),
		PhoneNumber: fakePhoneNumber(),
	}
}

// fakePhoneNumber returns a number accepted by the phone validator.
func fakePhoneNumber() string {
	prefixes := []string{"072", "073", "078", "079"}
	return fmt.Sprintf("%s%07d", prefixes[gofakeit.Number(0, len(prefixes)-1)], gofakeit.Number(0, 9999999))
}
