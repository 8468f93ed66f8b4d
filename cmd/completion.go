package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_keychain() {
    local cur prev words cword
    _init_completion || return

    local commands="init unlock lock ls get add edit rm passwd status compact completion help"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        init)
            COMPREPLY=($(compgen -W "--iterations" -- "$cur"))
            ;;
        unlock)
            COMPREPLY=($(compgen -W "--no-remember" -- "$cur"))
            ;;
        get)
            COMPREPLY=($(compgen -W "--show-secret" -- "$cur"))
            ;;
        add)
            COMPREPLY=($(compgen -W "--name --username --url --notes" -- "$cur"))
            ;;
        edit)
            COMPREPLY=($(compgen -W "--name --username --url --notes --secret --force" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}
complete -F _keychain keychain
`

const zshCompletion = `#compdef keychain

_keychain() {
    local -a commands
    commands=(
        'init:Create a new keychain vault'
        'unlock:Verify the password and cache it in the OS keyring'
        'lock:Drop the cached password'
        'ls:List stored items'
        'get:Show a stored item'
        'add:Store a new item'
        'edit:Update a stored item'
        'rm:Remove a stored item'
        'passwd:Change the vault password'
        'status:Show vault status'
        'compact:Reclaim unused vault space'
        'completion:Generate shell completions'
        'help:Show help'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "$words[2]" in
        get)
            _arguments '--show-secret[Print the secret]'
            ;;
        add)
            _arguments '--name[Item name]:name:' '--username[Username]:username:' \
                '--url[URL]:url:' '--notes[Notes]:notes:'
            ;;
        edit)
            _arguments '--name[Item name]:name:' '--username[Username]:username:' \
                '--url[URL]:url:' '--notes[Notes]:notes:' \
                '--secret[Prompt for a new secret]' '--force[Skip confirmation]'
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
    esac
}

_keychain
`

const fishCompletion = `complete -c keychain -f

complete -c keychain -n '__fish_use_subcommand' -a init -d 'Create a new keychain vault'
complete -c keychain -n '__fish_use_subcommand' -a unlock -d 'Verify the password and cache it'
complete -c keychain -n '__fish_use_subcommand' -a lock -d 'Drop the cached password'
complete -c keychain -n '__fish_use_subcommand' -a ls -d 'List stored items'
complete -c keychain -n '__fish_use_subcommand' -a get -d 'Show a stored item'
complete -c keychain -n '__fish_use_subcommand' -a add -d 'Store a new item'
complete -c keychain -n '__fish_use_subcommand' -a edit -d 'Update a stored item'
complete -c keychain -n '__fish_use_subcommand' -a rm -d 'Remove a stored item'
complete -c keychain -n '__fish_use_subcommand' -a passwd -d 'Change the vault password'
complete -c keychain -n '__fish_use_subcommand' -a status -d 'Show vault status'
complete -c keychain -n '__fish_use_subcommand' -a compact -d 'Reclaim unused vault space'
complete -c keychain -n '__fish_use_subcommand' -a completion -d 'Generate shell completions'

complete -c keychain -n '__fish_seen_subcommand_from get' -l show-secret -d 'Print the secret'
complete -c keychain -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`
