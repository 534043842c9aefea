package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sgaunet/mailalert/internal/app"
	"github.com/sgaunet/mailalert/internal/configapp"
	"github.com/sgaunet/mailalert/internal/dispatcher"
	"github.com/sgaunet/mailalert/internal/logger"
	"github.com/sgaunet/mailalert/internal/mailservice"
	mailgunservice "github.com/sgaunet/mailalert/internal/mailservice/mailgunService"
	sesservice "github.com/sgaunet/mailalert/internal/mailservice/sesService"
	smtpservice "github.com/sgaunet/mailalert/internal/mailservice/smtpService"
	"github.com/sgaunet/mailalert/internal/recipient"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

const shutdownTimeoutS = 10

var version string = "development"

func printVersion() {
	fmt.Println(version)
}

func checkErrorAndExitIfErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

// print AWS identity
func printID(ctx context.Context, appLog *logrus.Logger, cfg aws.Config) {
	client := sts.NewFromConfig(cfg)
	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		appLog.Warnf("failed to get AWS caller identity: %s", err)
		return
	}
	appLog.Infof("AWS Account: %s UserID: %s ARN: %s",
		aws.ToString(identity.Account),
		aws.ToString(identity.UserId),
		aws.ToString(identity.Arn))
}

// newMailSender returns the first configured backend: mailgun, smtp, ses.
func newMailSender(ctx context.Context, cfg configapp.AppConfig, appLog *logrus.Logger) (mailservice.MailSender, error) {
	if cfg.IsMailGunConfigured() {
		appLog.Infoln("mail backend: mailgun")
		return mailgunservice.NewMailgunService(cfg.MailgunConfig.Domain, cfg.MailgunConfig.ApiKey)
	}
	if cfg.IsSmtpConfigured() {
		appLog.Infoln("mail backend: smtp")
		return smtpservice.NewSMTPService(cfg.SmtpConfig.Login, cfg.SmtpConfig.Password,
			fmt.Sprintf("%s:%d", cfg.SmtpConfig.Server, cfg.SmtpConfig.Port), cfg.SmtpConfig.Tls)
	}
	if cfg.IsSESConfigured() {
		appLog.Infoln("mail backend: ses")
		awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SESConfig.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		printID(ctx, appLog, awscfg)
		return sesservice.NewSESService(awscfg)
	}
	return nil, fmt.Errorf("%w: no mail backend", configapp.ErrMissingConfiguration)
}

func newStore(ctx context.Context, cfg configapp.AppConfig, appLog *logrus.Logger) (recipient.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		appLog.Infoln("recipient store: postgres")
		return recipient.NewPostgresStore(db), db.Close, nil
	}
	appLog.Infof("recipient store: file (%s)", cfg.ClientFile)
	return recipient.NewFileStore(cfg.ClientFile), func() {}, nil
}

func main() {
	var vOption bool
	var configFilename string
	var err error
	var cfg configapp.AppConfig
	sigs := make(chan os.Signal, 1)
	ctx := context.Background()

	flag.BoolVar(&vOption, "v", false, "Get version")
	flag.StringVar(&configFilename, "c", "", "Path to the config file")
	flag.Parse()

	if vOption {
		printVersion()
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		logrus.Debugln("no .env file found, relying on system env vars")
	}

	if configFilename != "" {
		cfg, err = configapp.ReadYamlCnxFile(configFilename)
		checkErrorAndExitIfErr(err)
	}
	cfg.OverrideFromEnv()
	cfg.SetDefaults()

	appLog := logger.NewLogger(cfg.DebugLevel)
	appLog.Infoln("appLog.Level=", appLog.Level)

	err = cfg.Validate()
	checkErrorAndExitIfErr(err)

	generated, err := cfg.EnsureSecretKey()
	checkErrorAndExitIfErr(err)
	if generated {
		appLog.Warnln("using auto-generated secret key, set SECRET_KEY for production")
	}

	sender, err := newMailSender(ctx, cfg, appLog)
	checkErrorAndExitIfErr(err)

	store, closeStore, err := newStore(ctx, cfg, appLog)
	checkErrorAndExitIfErr(err)
	defer closeStore()

	disp := dispatcher.New(store, sender, cfg.MailConfig.FromEmail, cfg.MailConfig.Subject,
		cfg.MaxMessageLength, appLog)

	webapp, err := app.New(cfg, store, disp, appLog)
	checkErrorAndExitIfErr(err)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           webapp.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Infof("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Errorln(err.Error())
			os.Exit(1)
		}
	}()

	c := cron.New()
	if cfg.HeartbeatSchedule != "" {
		err = c.AddFunc(cfg.HeartbeatSchedule, func() {
			results, err := disp.Dispatch(ctx, "Heartbeat: the alert delivery path is working.")
			if err != nil {
				appLog.Errorf("heartbeat dispatch failed: %s", err)
				return
			}
			appLog.Infof("heartbeat sent to %d recipient(s), %d failed", len(results), dispatcher.Failed(results))
		})
		checkErrorAndExitIfErr(err)
		c.Start()
	}

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	c.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeoutS*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Errorf("server shutdown: %s", err)
	}
}
