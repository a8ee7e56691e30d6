// Command cli is a small admin client for provisioning accounts against a
// running server. The password can be passed with -password or typed at a
// hidden prompt with -prompt; with neither, no password is sent (flag-only
// update of an existing account).
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/dkovalev/authvault/internal/common"
)

type addUserRequest struct {
	ApplicationID string `json:"applicationId"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
	IsLocked      *bool  `json:"isLocked,omitempty"`
	IsEnabled     *bool  `json:"isEnabled,omitempty"`
}

func main() {

	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	apiKey := flag.String("k", "", "API key for the X-API-KEY header")
	app := flag.String("app", "", "application ID")
	email := flag.String("email", "", "account email")
	pwd := flag.String("password", "", "account password")
	prompt := flag.Bool("prompt", false, "read the password from a hidden terminal prompt")
	active := flag.String("active", "", "true|false; empty leaves the flag unchanged")
	locked := flag.String("locked", "", "true|false; empty leaves the flag unchanged")
	enabled := flag.String("enabled", "", "true|false; empty leaves the flag unchanged")
	flag.Parse()

	if *app == "" || *email == "" {
		log.Fatal("both -app and -email are required")
	}

	password := *pwd
	if password == "" && *prompt {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatalf("reading password: %v", err)
		}
		password = string(raw)
	}

	req := addUserRequest{
		ApplicationID: *app,
		Email:         *email,
		Password:      password,
		IsActive:      parseTriState(*active),
		IsLocked:      parseTriState(*locked),
		IsEnabled:     parseTriState(*enabled),
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("encoding request: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, *addr+"/jwt-auth/api/user/add", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("building request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(common.APIKeyHeaderName, *apiKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, out)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func parseTriState(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid flag value %q: expected true or false", s)
	}
	return &v
}
