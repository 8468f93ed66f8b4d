package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/live-labs/keychain/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "unlock":
		runUnlock(os.Args[2:])
	case "lock":
		runLock(os.Args[2:])
	case "ls", "list":
		runLs(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "add":
		runAdd(os.Args[2:])
	case "edit":
		runEdit(os.Args[2:])
	case "rm":
		runRm(os.Args[2:])
	case "passwd":
		runPasswd(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "compact":
		runCompact(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseOrExit(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	iterations := fs.Int("iterations", 0, "PBKDF2 iteration count (0 = default)")
	parseOrExit(fs, args)

	cmd.Init(*iterations)
}

func runUnlock(args []string) {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	noRemember := fs.Bool("no-remember", false, "Do not cache the password in the OS keyring")
	parseOrExit(fs, args)

	cmd.Unlock(!*noRemember)
}

func runLock(args []string) {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	parseOrExit(fs, args)

	cmd.Lock()
}

func runLs(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	parseOrExit(fs, args)

	cmd.List()
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	showSecret := fs.Bool("show-secret", false, "Print the secret instead of masking it")
	parseOrExit(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keychain get [--show-secret] <id|name>")
		os.Exit(1)
	}
	cmd.Get(fs.Arg(0), *showSecret)
}

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Item name")
	username := fs.String("username", "", "Username")
	url := fs.String("url", "", "URL")
	notes := fs.String("notes", "", "Notes")
	parseOrExit(fs, args)

	cmd.Add(*name, *username, *url, *notes)
}

func runEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	name := fs.String("name", "", "New item name")
	username := fs.String("username", "", "New username")
	url := fs.String("url", "", "New URL")
	notes := fs.String("notes", "", "New notes")
	secret := fs.Bool("secret", false, "Prompt for a new secret")
	force := fs.Bool("force", false, "Apply without confirmation")
	parseOrExit(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keychain edit [flags] <id|name>")
		os.Exit(1)
	}

	// Only fields whose flags were actually set are updated
	fields := cmd.EditFields{Secret: *secret}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			fields.Name = name
		case "username":
			fields.Username = username
		case "url":
			fields.URL = url
		case "notes":
			fields.Notes = notes
		}
	})

	cmd.Edit(fs.Arg(0), fields, *force)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	parseOrExit(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keychain rm <id|name>")
		os.Exit(1)
	}
	cmd.Remove(fs.Arg(0))
}

func runPasswd(args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	parseOrExit(fs, args)

	cmd.Passwd()
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	parseOrExit(fs, args)

	cmd.Status()
}

func runCompact(args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parseOrExit(fs, args)

	cmd.Compact()
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: keychain completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("keychain - Password keychain with an encrypted vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  keychain <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new keychain vault")
	fmt.Println("  unlock      Verify the password and cache it in the OS keyring")
	fmt.Println("  lock        Drop the cached password")
	fmt.Println("  ls          List stored items")
	fmt.Println("  get         Show a stored item")
	fmt.Println("  add         Store a new item")
	fmt.Println("  edit        Update a stored item")
	fmt.Println("  rm          Remove a stored item")
	fmt.Println("  passwd      Change the vault password")
	fmt.Println("  status      Show vault status")
	fmt.Println("  compact     Compact the vault to reclaim disk space")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  keychain init                    # Create a new vault")
	fmt.Println("  keychain add --name github       # Store a secret")
	fmt.Println("  keychain get github              # Look it up")
	fmt.Println("  keychain unlock                  # Cache the password in the keyring")
	fmt.Println()
	fmt.Println("The vault location defaults to ~/.keychain and can be changed via")
	fmt.Println("~/.config/keychain/config.yaml or the KEYCHAIN_VAULT_PATH variable.")
	fmt.Println()
	fmt.Println("Use 'keychain help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("keychain init [--iterations N]")
		fmt.Println()
		fmt.Println("Creates the keychain vault and sets its password.")
		fmt.Println("Fails if the vault is already initialized.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --iterations N   PBKDF2 iteration count (default 210000)")
	case "unlock":
		fmt.Println("keychain unlock [--no-remember]")
		fmt.Println()
		fmt.Println("Verifies the vault password. Unless --no-remember is given, the")
		fmt.Println("password is cached in the OS keyring so later commands do not")
		fmt.Println("prompt for it.")
	case "lock":
		fmt.Println("keychain lock")
		fmt.Println()
		fmt.Println("Removes the cached password from the OS keyring. The next item")
		fmt.Println("operation prompts for the password again.")
	case "ls":
		fmt.Println("keychain ls")
		fmt.Println()
		fmt.Println("Lists all stored items with their id, name and username.")
	case "get":
		fmt.Println("keychain get [--show-secret] <id|name>")
		fmt.Println()
		fmt.Println("Shows a stored item. The secret is masked unless --show-secret")
		fmt.Println("is given.")
	case "add":
		fmt.Println("keychain add [--name N] [--username U] [--url URL] [--notes T]")
		fmt.Println()
		fmt.Println("Stores a new item. The secret is read from the terminal without")
		fmt.Println("echo. Prints the generated item id.")
	case "edit":
		fmt.Println("keychain edit [flags] <id|name>")
		fmt.Println()
		fmt.Println("Updates fields of a stored item. Shows a diff preview and asks")
		fmt.Println("for confirmation before saving.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --name, --username, --url, --notes   Set a field")
		fmt.Println("  --secret                             Prompt for a new secret")
		fmt.Println("  --force                              Apply without confirmation")
	case "rm":
		fmt.Println("keychain rm <id|name>")
		fmt.Println()
		fmt.Println("Removes a stored item.")
	case "passwd":
		fmt.Println("keychain passwd")
		fmt.Println()
		fmt.Println("Changes the vault password and re-encrypts every stored item.")
	case "status":
		fmt.Println("keychain status")
		fmt.Println()
		fmt.Println("Shows vault status: item count, encryption parameters, keyring")
		fmt.Println("state, and a warning if the vault file is exposed through git.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("keychain compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("Does not require a password.")
	case "completion":
		fmt.Println("keychain completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs a shell completion script for the given shell.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
