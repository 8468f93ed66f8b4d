package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
)

// EditFields carries the field updates for Edit. Nil pointers leave the
// field unchanged; Secret triggers an interactive prompt for a new secret.
type EditFields struct {
	Name     *string
	Username *string
	URL      *string
	Notes    *string
	Secret   bool
}

// Edit updates an item resolved by id or name, showing a unified diff
// preview and asking for confirmation before saving. force skips the
// confirmation.
func Edit(query string, fields EditFields, force bool) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	item, err := findItem(kc, query)
	if err != nil {
		HandleError(err)
	}

	updated := item.Clone()
	if fields.Name != nil {
		updated.Name = *fields.Name
	}
	if fields.Username != nil {
		updated.Username = *fields.Username
	}
	if fields.URL != nil {
		updated.URL = *fields.URL
	}
	if fields.Notes != nil {
		updated.Notes = *fields.Notes
	}
	if fields.Secret {
		secret, err := readPassword("New secret: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		updated.Secret = string(secret)
		crypto.ClearBytes(secret)
	}

	diff := diffPreview(item, updated)
	if diff == "" {
		fmt.Println("No changes")
		return
	}
	fmt.Print(diff)

	if !force && !confirm("Apply changes? [y/N]: ") {
		fmt.Println("Aborted")
		return
	}

	updated.Touch()
	if err := kc.SaveItem(updated); err != nil {
		HandleError(err)
	}

	fmt.Printf("Updated item %s\n", updated.ID)
}

// diffPreview renders a unified diff between two versions of an item.
// Secrets never appear in the output; a changed secret shows up as a
// "(hidden)" -> "(updated)" line.
func diffPreview(before, after *keychain.Item) string {
	beforeText := renderItem(before, false)
	afterText := renderItem(after, false)
	if after.Secret != before.Secret && after.Secret != "" {
		afterText = strings.Replace(afterText, "secret: (hidden)\n", "secret: (updated)\n", 1)
	}
	if beforeText == afterText {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for readable output
	a, b, lineArray := dmp.DiffLinesToChars(beforeText, afterText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(beforeText, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s\n", before.ID))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", after.ID))
	result.WriteString(dmp.PatchToText(patches))
	return result.String()
}

// confirm asks a yes/no question on stdin
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
