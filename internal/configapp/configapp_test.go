package configapp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sgaunet/mailalert/internal/configapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
listen_addr: ":9090"
secret_key: "file-secret"
client_file: "/var/lib/mailalert/clients.txt"
max_message_length: 1000
debuglevel: debug
mailconfiguration:
  from_email: sender@x.com
  subject: Production Alert
mailgun:
  domain: mg.example.com
  apikey: key-123
smtp:
  server: smtp.example.com
  port: 587
  login: user
  password: pass
  tls: true
ses:
  region: eu-west-3
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadYamlCnxFile(t *testing.T) {
	cfg, err := configapp.ReadYamlCnxFile(writeConfigFile(t, yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Equal(t, "/var/lib/mailalert/clients.txt", cfg.ClientFile)
	assert.Equal(t, 1000, cfg.MaxMessageLength)
	assert.Equal(t, "sender@x.com", cfg.MailConfig.FromEmail)
	assert.Equal(t, "Production Alert", cfg.MailConfig.Subject)
	assert.Equal(t, "mg.example.com", cfg.MailgunConfig.Domain)
	assert.True(t, cfg.IsMailGunConfigured())
	assert.True(t, cfg.IsSmtpConfigured())
	assert.True(t, cfg.IsSESConfigured())
}

func TestReadYamlCnxFileMissing(t *testing.T) {
	_, err := configapp.ReadYamlCnxFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestReadYamlCnxFileInvalid(t *testing.T) {
	_, err := configapp.ReadYamlCnxFile(writeConfigFile(t, "listen_addr: [broken"))
	assert.Error(t, err)
}

func TestOverrideFromEnv(t *testing.T) {
	cfg, err := configapp.ReadYamlCnxFile(writeConfigFile(t, yamlConfig))
	require.NoError(t, err)

	t.Setenv("SENDER_EMAIL", "env@x.com")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("SMTP_PORT", "2525")
	cfg.OverrideFromEnv()

	assert.Equal(t, "env@x.com", cfg.MailConfig.FromEmail)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 2525, cfg.SmtpConfig.Port)
	// Values without a matching env var stay as configured.
	assert.Equal(t, "mg.example.com", cfg.MailgunConfig.Domain)
}

func TestSetDefaults(t *testing.T) {
	var cfg configapp.AppConfig
	cfg.SetDefaults()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, configapp.DefaultClientFile, cfg.ClientFile)
	assert.Equal(t, configapp.DefaultMaxMessageLength, cfg.MaxMessageLength)
	assert.Equal(t, "System Alert", cfg.MailConfig.Subject)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*configapp.AppConfig)
		wantErr bool
	}{
		{
			name:    "complete configuration",
			mutate:  func(*configapp.AppConfig) {},
			wantErr: false,
		},
		{
			name: "missing sender email",
			mutate: func(cfg *configapp.AppConfig) {
				cfg.MailConfig.FromEmail = ""
			},
			wantErr: true,
		},
		{
			name: "no mail backend",
			mutate: func(cfg *configapp.AppConfig) {
				cfg.MailgunConfig = configapp.MailGunConfig{}
				cfg.SESConfig = configapp.SESConfig{}
				cfg.SmtpConfig = configapp.AppConfig{}.SmtpConfig
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := configapp.ReadYamlCnxFile(writeConfigFile(t, yamlConfig))
			require.NoError(t, err)
			tt.mutate(&cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, configapp.ErrMissingConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureSecretKey(t *testing.T) {
	var cfg configapp.AppConfig
	generated, err := cfg.EnsureSecretKey()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, cfg.SecretKey, 64)

	// A configured key is kept.
	cfg.SecretKey = "keep-me"
	generated, err = cfg.EnsureSecretKey()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, "keep-me", cfg.SecretKey)
}
