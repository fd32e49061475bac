package app

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "MySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("Hash should start with $argon2id$v=19$, got: %s", hash)
	}

	// Hash should be different each time (different salt)
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed on second call: %v", err)
	}

	if hash == hash2 {
		t.Error("Two hashes of same password should be different (different salts)")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "MySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{name: "Correct password", password: password, hash: hash, want: true},
		{name: "Wrong password", password: "WrongPassword456", hash: hash, want: false},
		{name: "Invalid hash format", password: password, hash: "invalid", wantErr: true},
		{name: "Wrong algorithm", password: password, hash: "$bcrypt$v=1$m=65536,t=1,p=4$salt$hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateAuthFile(t *testing.T) {
	authFile := filepath.Join(t.TempDir(), "auth.secret")
	username := "testuser"
	password := "TestPassword123456"

	t.Run("Create new file", func(t *testing.T) {
		var out bytes.Buffer
		if err := CreateAuthFile(authFile, username, password, false, strings.NewReader(""), &out); err != nil {
			t.Fatalf("CreateAuthFile() failed: %v", err)
		}

		info, err := os.Stat(authFile)
		if err != nil {
			t.Fatalf("Failed to stat auth file: %v", err)
		}
		if info.Mode().Perm() != 0400 {
			t.Errorf("Expected file mode 0400 (read-only), got %o", info.Mode().Perm())
		}

		content, err := os.ReadFile(authFile)
		if err != nil {
			t.Fatalf("Failed to read auth file: %v", err)
		}
		parts := strings.SplitN(strings.TrimSpace(string(content)), ":", 2)
		if len(parts) != 2 || parts[0] != username {
			t.Fatalf("Auth file should contain %s:hash, got %q", username, content)
		}

		match, err := VerifyPassword(password, parts[1])
		if err != nil {
			t.Fatalf("VerifyPassword() failed: %v", err)
		}
		if !match {
			t.Error("Password verification failed for created hash")
		}
	})

	t.Run("Existing file declined", func(t *testing.T) {
		var out bytes.Buffer
		err := CreateAuthFile(authFile, "other", password, false, strings.NewReader("n\n"), &out)
		if err == nil {
			t.Fatal("Expected abort when overwrite is declined")
		}
		if !strings.Contains(out.String(), "Overwrite?") {
			t.Errorf("Expected overwrite prompt, got %q", out.String())
		}
	})

	t.Run("Existing file confirmed", func(t *testing.T) {
		var out bytes.Buffer
		if err := CreateAuthFile(authFile, "confirmed", password, false, strings.NewReader("yes\n"), &out); err != nil {
			t.Fatalf("CreateAuthFile() with confirmation failed: %v", err)
		}
		content, _ := os.ReadFile(authFile)
		if !strings.HasPrefix(string(content), "confirmed:") {
			t.Error("File should be overwritten after confirmation")
		}
	})

	t.Run("Overwrite with flag", func(t *testing.T) {
		var out bytes.Buffer
		if err := CreateAuthFile(authFile, "newuser", "NewPassword123456", true, nil, &out); err != nil {
			t.Fatalf("CreateAuthFile() with overwrite failed: %v", err)
		}
		content, _ := os.ReadFile(authFile)
		if !strings.HasPrefix(string(content), "newuser:") {
			t.Error("File should be overwritten with new username")
		}
	})
}

func TestLoadAuthenticator(t *testing.T) {
	tests := []struct {
		name        string
		setupFile   func(string) error
		wantUser    string
		wantErr     bool
		wantEnabled bool
	}{
		{
			name: "Valid auth file",
			setupFile: func(path string) error {
				hash, _ := HashPassword("TestPassword123456")
				return os.WriteFile(path, []byte("testuser:"+hash), 0600)
			},
			wantUser:    "testuser",
			wantEnabled: true,
		},
		{
			name:      "File not exists (unprotected)",
			setupFile: func(path string) error { return nil },
		},
		{
			name: "Invalid format (missing colon)",
			setupFile: func(path string) error {
				return os.WriteFile(path, []byte("invalidformat"), 0600)
			},
			wantErr: true,
		},
		{
			name: "Invalid format (empty)",
			setupFile: func(path string) error {
				return os.WriteFile(path, []byte(""), 0600)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authFile := filepath.Join(t.TempDir(), "auth.secret")
			if err := tt.setupFile(authFile); err != nil {
				t.Fatalf("Setup failed: %v", err)
			}

			a, err := LoadAuthenticator(authFile, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadAuthenticator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if a.User() != tt.wantUser {
				t.Errorf("User() = %s, want %s", a.User(), tt.wantUser)
			}
			if a.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", a.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	})

	password := "TestPassword123456"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}
	protected := &Authenticator{user: "admin", hash: []byte(hash)}

	tests := []struct {
		name           string
		auth           *Authenticator
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Valid credentials",
			auth:           protected,
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:"+password)),
			expectedStatus: http.StatusOK,
			expectedBody:   "success",
		},
		{
			name:           "Invalid password",
			auth:           protected,
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:wrongpassword")),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized\n",
		},
		{
			name:           "Invalid username",
			auth:           protected,
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("wronguser:"+password)),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized\n",
		},
		{
			name:           "No auth header",
			auth:           protected,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized\n",
		},
		{
			name:           "Unprotected (no auth file)",
			auth:           &Authenticator{},
			expectedStatus: http.StatusOK,
			expectedBody:   "success",
		},
		{
			name:           "Nil authenticator",
			auth:           nil,
			expectedStatus: http.StatusOK,
			expectedBody:   "success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/plan", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			tt.auth.Require(testHandler)(w, req)

			resp := w.Result()
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
			if body := w.Body.String(); body != tt.expectedBody {
				t.Errorf("Expected body %q, got %q", tt.expectedBody, body)
			}
			if tt.expectedStatus == http.StatusUnauthorized && resp.Header.Get("WWW-Authenticate") == "" {
				t.Error("Expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestArgon2idParameters(t *testing.T) {
	if argon2Memory < 64*1024 {
		t.Error("Argon2id memory should be at least 64MB (OWASP recommendation)")
	}
	if argon2Time < 1 {
		t.Error("Argon2id time parameter should be at least 1")
	}
	if argon2Threads < 1 {
		t.Error("Argon2id threads should be at least 1")
	}
	if argon2KeyLen < 32 {
		t.Error("Argon2id key length should be at least 32 bytes")
	}
	if saltLen < 16 {
		t.Error("Salt length should be at least 16 bytes")
	}
}
