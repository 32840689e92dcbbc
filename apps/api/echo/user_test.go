package echoapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/prathomik/sheba/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	sch := registerSchool(t, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")
	superAdmin := createUser(t, "DSHE Admin", "admin@dshe.gov.bd", user.RoleSuperAdmin, "", true)
	teacher := createUser(t, "Teacher", "teacher@mirpur.edu.bd", user.RoleTeacher, sch.ID, true)

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required"}),
		},
		{
			name: "invalid email", body: []byte(`{"email": "lol"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", body: []byte(`{"email": "nobody@test.bd"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unverified school admin", body: []byte(`{"email": "head@mirpur.edu.bd"}`), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "email address not verified"}),
		},
		{name: "super admin ok", body: []byte(fmt.Sprintf(`{"email": %q}`, superAdmin.Email)), wantCode: http.StatusOK},
		{name: "teacher ok", body: []byte(fmt.Sprintf(`{"email": %q}`, teacher.Email)), wantCode: http.StatusOK},
		{name: "email is case-insensitive", body: []byte(`{"email": "TEACHER@mirpur.edu.bd"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling LoginResponse: %v", err)
			}
			if resp.Token == "" {
				t.Error("empty token")
			}
		})
	}
}

func Test_userApi_verifyEmail(t *testing.T) {
	app := setup(t)

	registerSchool(t, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")

	// the headmaster account cannot log in until verified
	req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(`{"email": "head@mirpur.edu.bd"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pre-verification login code = %v; want %v", rec.Code, http.StatusForbidden)
	}

	tests := []httpTest{
		{name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required"})},
		{name: "unknown email leaks nothing", body: []byte(`{"email": "nobody@test.bd"}`), wantCode: http.StatusOK},
		{name: "known email", body: []byte(`{"email": "head@mirpur.edu.bd"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/verify-email", tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
		})
	}

	// and now it can
	req, rec = newRequest(http.MethodPost, "/v1/users/login", []byte(`{"email": "head@mirpur.edu.bd"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("post-verification login code = %v; want %v", rec.Code, http.StatusOK)
	}
}

func Test_userApi_confirmEmail(t *testing.T) {
	app := setup(t)

	registerSchool(t, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")
	admin, err := usrSvc.GetByEmail("head@mirpur.edu.bd")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	uid, token := user.EncodeUID(admin), user.MakeToken(admin)

	path := func(uid, token string) string {
		v := make(url.Values)
		v.Set("uid", uid)
		v.Set("token", token)
		return "/v1/users/confirm-email?" + v.Encode()
	}

	tests := []httpTest{
		{name: "no params", path: path("", ""), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound)},
		{name: "bad uid", path: path("lol!", token), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid token"})},
		{name: "bad token", path: path(uid, "lol-lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid token"})},
		{name: "valid", path: path(uid, token), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			refreshed, err := usrSvc.GetByID(admin.ID)
			if err != nil {
				t.Fatalf("GetByID() failed: %v", err)
			}
			if !refreshed.EmailVerified {
				t.Error("account not verified")
			}
		})
	}
}

func Test_userApi_retrieveSelf(t *testing.T) {
	app := setup(t)

	superAdmin := createUser(t, "DSHE Admin", "admin@dshe.gov.bd", user.RoleSuperAdmin, "", true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get self", token: getToken(t, superAdmin), wantCode: http.StatusOK, wantData: marchallObj(t, superAdmin)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)

	superAdmin := createUser(t, "DSHE Admin", "admin@dshe.gov.bd", user.RoleSuperAdmin, "", true)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Refresh", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, superAdmin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling LoginResponse: %v", err)
		}
		if resp.Token == "" {
			t.Error("empty token")
		}
	})
}
