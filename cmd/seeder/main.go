package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Development seeder: registers a fake user through the public API, signs
// in, and posts a handful of fake tweets so the feed has something to show.

type account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentials struct {
	UserId  string `json:"userId"`
	IdToken string `json:"idToken"`
}

func main() {
	apiUrl := flag.String("api", "http://localhost:8080", "base URL of the API")
	count := flag.Int("n", 10, "number of tweets to post")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	user := account{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "123456", // default password
	}

	creds := createAccount(*apiUrl, user)
	if creds.IdToken == "" {
		log.Fatal("Could not obtain token, aborting seeding process")
	}
	log.Printf("Registered %s (%s)", user.Name, user.Email)

	for i := 0; i < *count; i++ {
		postTweet(*apiUrl, creds.IdToken, gofakeit.Sentence(gofakeit.Number(3, 12)))
	}
	log.Printf("Posted %d tweets", *count)
}

func createAccount(apiUrl string, user account) credentials {
	body, err := json.Marshal(user)
	if err != nil {
		log.Fatalf("Error marshaling account: %v", err)
	}

	resp, err := http.Post(apiUrl+"/api/auth/createAccount", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Error creating account: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Account creation returned status %d", resp.StatusCode)
	}

	var creds credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		log.Fatalf("Error decoding credentials: %v", err)
	}

	return creds
}

func postTweet(apiUrl, token, text string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("tweet", text); err != nil {
		log.Fatalf("Error writing form field: %v", err)
	}
	if err := writer.Close(); err != nil {
		log.Fatalf("Error closing form writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiUrl+"/api/tweets", &buf)
	if err != nil {
		log.Fatalf("Error building request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Error posting tweet: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("tweet rejected with status %d: %q\n", resp.StatusCode, text)
	}
}
