package app

import (
	"bufio"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Authenticator guards mutating routes with HTTP basic auth.
// A zero Authenticator lets every request through.
type Authenticator struct {
	user string
	hash []byte
	log  *zap.Logger
}

// LoadAuthenticator reads username:hash credentials from path.
// A missing file disables auth and logs a warning.
func LoadAuthenticator(path string, log *zap.Logger) (*Authenticator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Authenticator{log: log}
	if path == "" {
		log.Warn("no auth file configured, write access is unprotected")
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("no auth file found, write access is unprotected (local use only)",
				zap.String("expected", path),
				zap.String("hint", "run: holiday-planner hash-password"))
			return a, nil
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	// Parse auth file (format: username:hash)
	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	a.user = parts[0]
	a.hash = []byte(parts[1])
	log.Info("basic auth enabled for write access", zap.String("user", a.user), zap.String("file", path))
	return a, nil
}

// Enabled reports whether credentials were loaded
func (a *Authenticator) Enabled() bool {
	return a != nil && a.hash != nil
}

// User returns the configured username
func (a *Authenticator) User() string {
	if a == nil {
		return ""
	}
	return a.user
}

func (a *Authenticator) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

// HashPassword creates an Argon2id hash of the password
func HashPassword(password string) (string, error) {
	// Generate random salt
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads)
	if err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))

	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// Require wraps next with Basic Auth verified against the Argon2id hash
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, string(a.hash))
			if err != nil {
				a.logger().Error("verifying password", zap.Error(err))
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="Holiday Planner"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			a.logger().Warn("failed auth attempt", zap.String("remote", r.RemoteAddr), zap.String("user", user))
			return
		}

		next(w, r)
	}
}

// CreateAuthFile writes username and hashed password to path (mode 0400).
// Without overwrite an existing file is only replaced after confirmation on in.
func CreateAuthFile(path, username, password string, overwrite bool, in io.Reader, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			fmt.Fprintf(out, "Auth file already exists: %s\n", path)
			fmt.Fprint(out, "Overwrite? (y/N): ")
			reader := bufio.NewReader(in)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				return fmt.Errorf("aborted")
			}
		}
		// The file is read-only, so it has to go before rewriting
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(path, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Fprintf(out, "Auth file created: %s (mode: 0400 read-only)\n", path)
	fmt.Fprintf(out, "   Username: %s\n", username)
	return nil
}
