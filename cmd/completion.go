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

const bashCompletion = `_sealfile() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt seal unseal verify diff status forget compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt|decrypt)
            _filedir
            ;;
        seal)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-r --remove" -- "$cur"))
            else
                _filedir
            fi
            ;;
        unseal)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-f --force --keep-both" -- "$cur"))
            else
                _filedir sealed
            fi
            ;;
        verify|diff|forget)
            _filedir sealed
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _sealfile sealfile
`

const zshCompletion = `#compdef sealfile

_sealfile() {
    local -a commands
    commands=(
        'encrypt:Encrypt one file to a container'
        'decrypt:Decrypt one container to a file'
        'seal:Encrypt files next to themselves'
        'unseal:Decrypt sealed files next to themselves'
        'verify:Check containers decrypt without writing'
        'diff:Compare a container with the local file'
        'status:Show sealed files and git warnings'
        'forget:Drop containers from the index'
        'compact:Compact the index database'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'sealfile commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt|decrypt)
                    _arguments '*:file:_files'
                    ;;
                seal)
                    _arguments \
                        '-r[Remove original files after sealing]' \
                        '--remove[Remove original files after sealing]' \
                        '*:file:_files'
                    ;;
                unseal)
                    _arguments \
                        '-f[Overwrite local files that differ]' \
                        '--force[Overwrite local files that differ]' \
                        '--keep-both[Write container content next to differing local files]' \
                        '*:sealed file:_files -g "*.sealed"'
                    ;;
                verify|diff|forget)
                    _arguments '*:sealed file:_files -g "*.sealed"'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'sealfile commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_sealfile "$@"
`

const fishCompletion = `# sealfile fish completions

set -l commands encrypt decrypt seal unseal verify diff status forget compact keyring help completion

complete -c sealfile -f

# Commands
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt one file'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt one container'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a seal -d 'Encrypt files in place'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a unseal -d 'Decrypt sealed files'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a verify -d 'Check containers'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare container with local'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show sealed files'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a forget -d 'Drop from index'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact index'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c sealfile -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# file arguments
complete -c sealfile -n "__fish_seen_subcommand_from encrypt decrypt seal unseal verify diff forget" -F

# seal flags
complete -c sealfile -n "__fish_seen_subcommand_from seal" -s r -l remove -d 'Remove original files'

# unseal flags
complete -c sealfile -n "__fish_seen_subcommand_from unseal" -s f -l force -d 'Overwrite local files'
complete -c sealfile -n "__fish_seen_subcommand_from unseal" -l keep-both -d 'Keep both versions'

# keyring subcommands
complete -c sealfile -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c sealfile -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c sealfile -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
