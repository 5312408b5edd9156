package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func stateCmd(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	_ = fs.Parse(args)

	u := strings.TrimRight(strings.TrimSpace(*baseURL), "/") + "/admin/v1/state"
	cl := &http.Client{Timeout: 5 * time.Second}
	resp, err := cl.Get(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	finish(resp)
}

func buildingCmd(args []string) {
	fs := flag.NewFlagSet("building", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	enabled := fs.String("enabled", "", "true/false (optional)")
	startMaterials := fs.Int("start_materials", -1, "materials granted on spawn (optional)")
	maxStructures := fs.Int("max_structures", -1, "live structure cap (optional)")
	_ = fs.Parse(args)

	body := map[string]any{}
	switch strings.ToLower(strings.TrimSpace(*enabled)) {
	case "":
	case "true", "1", "on":
		body["enabled"] = true
	case "false", "0", "off":
		body["enabled"] = false
	default:
		fmt.Fprintln(os.Stderr, "bad -enabled:", *enabled)
		os.Exit(2)
	}
	if *startMaterials >= 0 {
		body["start_materials"] = *startMaterials
	}
	if *maxStructures >= 0 {
		body["max_structures"] = *maxStructures
	}
	if len(body) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to change")
		os.Exit(2)
	}
	post(*baseURL, "/admin/v1/building", body)
}

func damageCmd(args []string) {
	fs := flag.NewFlagSet("damage", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	id := fs.String("id", "", "structure id")
	amount := fs.Int("amount", 0, "damage amount (> 0)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*id) == "" || *amount <= 0 {
		fmt.Fprintln(os.Stderr, "need -id and -amount > 0")
		os.Exit(2)
	}
	post(*baseURL, "/admin/v1/damage", map[string]any{"structure_id": *id, "amount": *amount})
}

func removeCmd(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	id := fs.String("id", "", "structure id")
	_ = fs.Parse(args)

	if strings.TrimSpace(*id) == "" {
		fmt.Fprintln(os.Stderr, "missing -id")
		os.Exit(2)
	}
	post(*baseURL, "/admin/v1/remove", map[string]any{"structure_id": *id})
}

func post(baseURL, path string, body any) {
	b, _ := json.Marshal(body)
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/") + path
	req, _ := http.NewRequest(http.MethodPost, u, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	cl := &http.Client{Timeout: 10 * time.Second}
	resp, err := cl.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	finish(resp)
}

func finish(resp *http.Response) {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	fmt.Println(strings.TrimSpace(string(b)))
	if resp.StatusCode/100 != 2 {
		os.Exit(1)
	}
}
