package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/config"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
)

func identityCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ssdash identity <list|add|remove>")
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		identityList()
	case "add":
		identityAdd()
	case "remove":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: ssdash identity remove NAME")
			os.Exit(1)
		}
		identityRemove(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown identity command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: ssdash identity <list|add|remove>")
		os.Exit(1)
	}
}

// OpenStore opens the credential store, prompting for the master password
// if needed. Tries an empty password first to support no-password vaults.
func OpenStore() (*identity.FileStore, error) {
	storePath, err := config.GetIdentityStorePath()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating config directories: %w", err)
	}

	store, storeErr := identity.NewFileStore(storePath, []byte(""))
	if storeErr == nil {
		return store, nil
	}

	password, err := getMasterPassword()
	if err != nil {
		return nil, err
	}
	return identity.NewFileStore(storePath, password)
}

func openStore() *identity.FileStore {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening identity store: %v\n", err)
		os.Exit(1)
	}
	return store
}

// getMasterPassword reads the master password from the SSDASH_MASTER_KEY
// env var or prompts for it.
func getMasterPassword() ([]byte, error) {
	if key := os.Getenv("SSDASH_MASTER_KEY"); key != "" {
		return []byte(key), nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("identity store is password-protected; set SSDASH_MASTER_KEY")
	}

	fmt.Fprint(os.Stderr, "Master password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

func identityList() {
	store := openStore()
	summaries, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing identities: %v\n", err)
		os.Exit(1)
	}

	if len(summaries) == 0 {
		fmt.Println("No identities configured.")
		return
	}

	for _, s := range summaries {
		line := fmt.Sprintf("%-20s  kind=%s", s.Name, s.Kind)
		if s.Username != "" {
			line += fmt.Sprintf("  user=%s", s.Username)
		}
		if s.Version != "" {
			line += fmt.Sprintf("  version=%s", s.Version)
		}
		if s.AuthProto != "" {
			line += fmt.Sprintf("  auth=%s", s.AuthProto)
		}
		if s.PrivProto != "" {
			line += fmt.Sprintf("  priv=%s", s.PrivProto)
		}
		fmt.Println(line)
	}
}

func identityAdd() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Profile name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: name is required")
		os.Exit(1)
	}

	fmt.Print("Kind (snmp, mqtt): ")
	kind, _ := reader.ReadString('\n')
	kind = strings.TrimSpace(kind)

	id := identity.Identity{Name: name, Kind: kind}

	switch kind {
	case identity.KindMQTT:
		fmt.Print("Username: ")
		username, _ := reader.ReadString('\n')
		id.Username = strings.TrimSpace(username)

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			os.Exit(1)
		}
		id.Password = string(password)

	case identity.KindSNMP:
		fmt.Print("SNMP version (1, 2c, 3): ")
		version, _ := reader.ReadString('\n')
		id.Version = strings.TrimSpace(version)

		switch id.Version {
		case "1", "2c":
			fmt.Print("Community string: ")
			community, _ := reader.ReadString('\n')
			id.Community = strings.TrimSpace(community)
			if id.Community == "" {
				fmt.Fprintln(os.Stderr, "Error: community string is required for v1/v2c")
				os.Exit(1)
			}
		case "3":
			fmt.Print("Username: ")
			username, _ := reader.ReadString('\n')
			id.Username = strings.TrimSpace(username)
			if id.Username == "" {
				fmt.Fprintln(os.Stderr, "Error: username is required for v3")
				os.Exit(1)
			}

			fmt.Print("Auth protocol (none, MD5, SHA, SHA256, SHA512): ")
			authProto, _ := reader.ReadString('\n')
			authProto = strings.TrimSpace(authProto)
			if authProto != "" && authProto != "none" {
				id.AuthProto = strings.ToUpper(authProto)

				fmt.Fprint(os.Stderr, "Auth password: ")
				authPass, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
					os.Exit(1)
				}
				id.AuthPass = string(authPass)

				fmt.Print("Privacy protocol (none, DES, AES128, AES192, AES256): ")
				privProto, _ := reader.ReadString('\n')
				privProto = strings.TrimSpace(privProto)
				if privProto != "" && privProto != "none" {
					id.PrivProto = strings.ToUpper(privProto)

					fmt.Fprint(os.Stderr, "Privacy password: ")
					privPass, err := term.ReadPassword(int(os.Stdin.Fd()))
					fmt.Fprintln(os.Stderr)
					if err != nil {
						fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
						os.Exit(1)
					}
					id.PrivPass = string(privPass)
				}
			}
		default:
			fmt.Fprintln(os.Stderr, "Error: version must be 1, 2c, or 3")
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "Error: kind must be snmp or mqtt")
		os.Exit(1)
	}

	store := openStore()
	if err := store.Add(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding identity: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profile %q added.\n", name)
}

func identityRemove(name string) {
	store := openStore()
	if err := store.Remove(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing identity: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profile %q removed.\n", name)
}
