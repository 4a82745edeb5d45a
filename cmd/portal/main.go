// Package main is the entry point of the EduCRM portal process.
//
// It builds the stores from the environment, runs a short walkthrough of the
// admin, teacher and student flows when demo mode is on, and optionally
// serves Prometheus metrics until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/educrm/educrm-hub/config"
	"github.com/educrm/educrm-hub/internal/application/portal"
	"github.com/educrm/educrm-hub/internal/application/query"
	"github.com/educrm/educrm-hub/internal/application/store/session"
	"github.com/educrm/educrm-hub/internal/domain/admin"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/infrastructure/metrics"
	"github.com/educrm/educrm-hub/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	log := logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. STORES
	// ─────────────────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	p, err := portal.New(cfg, portal.Options{Logger: log, Registerer: reg})
	if err != nil {
		return fmt.Errorf("failed to build portal: %w", err)
	}
	defer p.Close()

	g, gctx := errgroup.WithContext(ctx)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. METRICS ENDPOINT
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Observability.MetricsEnabled && cfg.Observability.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Observability.MetricsAddr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("metrics endpoint listening", logger.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. WALKTHROUGH
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Auth.DemoMode {
		if err := walkthrough(gctx, p, cfg.Auth.SharedSecret, log); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("walkthrough: %w", err)
		}
	} else {
		log.Info("demo mode is off, walkthrough skipped")
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown completed")
	return nil
}

// walkthrough drives the three dashboards the way a user would.
func walkthrough(ctx context.Context, p *portal.Portal, secret string, log *logger.Logger) error {
	unsubscribe := p.Session.Subscribe(func(s session.Snapshot) {
		log.Debug("session changed",
			logger.String("state", string(s.State)),
			logger.Version(s.Change.Version),
		)
	})
	defer unsubscribe()

	// Two overlapping sign-ins: the one that resolves last owns the session.
	lg, lctx := errgroup.WithContext(ctx)
	for _, username := range []string{"admin", "teacher"} {
		lg.Go(func() error {
			ok, err := p.Session.Login(lctx, username, secret)
			if err != nil {
				return err
			}
			log.Info("login resolved", logger.Username(username), logger.Bool("ok", ok))
			return nil
		})
	}
	if err := lg.Wait(); err != nil {
		return err
	}
	if who, ok := p.Session.Current(); ok {
		log.Info("signed in", logger.Username(who.Username), logger.Role(string(who.Role)))
	}

	// Admin side.
	if err := p.Session.SetDemoUser(identity.RoleAdmin); err != nil {
		return err
	}
	if _, err := p.Admin.AddStudent(admin.StudentFields{
		Name:    "Carol White",
		Email:   "carol@student.com",
		Course:  "Physics Class",
		Teacher: "Mike Wilson",
		Fee:     480,
	}); err != nil {
		return err
	}
	dash, err := p.AdminDashboard.Handle(query.AdminDashboardQuery{})
	if err != nil {
		return err
	}
	log.Info("admin dashboard",
		logger.Int("students", dash.TotalStudents),
		logger.Int("teachers", dash.TotalTeachers),
		logger.Any("revenue", dash.Revenue),
		logger.Int("pending_payments", dash.PendingPayments),
	)

	// Teacher side.
	if err := p.Session.SetDemoUser(identity.RoleTeacher); err != nil {
		return err
	}
	if _, err := p.Teacher.AddStudentPoint(teaching.PointFields{
		StudentID: "3",
		GroupID:   "g1",
		Points:    15,
		Reason:    "Excellent homework",
	}); err != nil {
		return err
	}
	overview, err := p.TeacherOverview.Handle(query.TeacherOverviewQuery{})
	if err != nil {
		return err
	}
	log.Info("teacher overview",
		logger.Int("active_groups", overview.ActiveGroups),
		logger.Int("total_points", overview.TotalPoints),
	)

	// Student side: signing in as the student derives the wallet.
	if err := p.Session.SetDemoUser(identity.RoleStudent); err != nil {
		return err
	}
	bought := p.Student.Spend(7, "Premium Notebook")
	p.Student.EarnAchievement("Early Bird", "Logged in before the first lesson", "sunrise")
	wallet := p.Student.Snapshot().Wallet
	log.Info("student wallet",
		logger.StudentID(wallet.StudentID),
		logger.Points(wallet.TotalPoints),
		logger.Bool("bought_notebook", bought),
		logger.Int("achievements", len(wallet.Achievements)),
	)

	p.Session.Logout()
	return nil
}
