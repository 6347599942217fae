// Package codegen generates the starter files for a new ink! contract
// project.
package codegen

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrPackageName rejects names that are not valid Rust package
	// names (alphanumeric, `-` or `_` only).
	ErrPackageName = errors.New("invalid package name")
	// ErrContractName rejects names that do not begin with an
	// alphabetic character.
	ErrContractName = errors.New("invalid contract name")
)

// Project holds the code stubs for creating an ink! project.
type Project struct {
	// Lib is the lib.rs content.
	Lib ProjectFile
	// Cargo is the Cargo.toml content.
	Cargo ProjectFile
}

// ProjectFile is one generated file in plain and snippet form. The
// snippet variant carries editor tab stops and placeholders.
type ProjectFile struct {
	Plain   string
	Snippet string
}

const contractPlain = `#![cfg_attr(not(feature = "std"), no_std, no_main)]

#[ink::contract]
mod my_contract {
    #[ink(storage)]
    pub struct MyContract {
        value: bool,
    }

    impl MyContract {
        #[ink(constructor)]
        pub fn new(init_value: bool) -> Self {
            Self { value: init_value }
        }

        #[ink(constructor)]
        pub fn default() -> Self {
            Self::new(Default::default())
        }

        #[ink(message)]
        pub fn get(&self) -> bool {
            self.value
        }

        #[ink(message)]
        pub fn flip(&mut self) {
            self.value = !self.value;
        }
    }

    #[cfg(test)]
    mod tests {
        use super::*;

        #[ink::test]
        fn it_works() {
            let mut my_contract = MyContract::new(false);
            assert_eq!(my_contract.get(), false);
            my_contract.flip();
            assert_eq!(my_contract.get(), true);
        }
    }
}
`

const contractSnippet = `#![cfg_attr(not(feature = "std"), no_std, no_main)]

#[ink::contract]
mod ${1:my_contract} {
    #[ink(storage)]
    pub struct ${2:MyContract} {
        value: bool,
    }

    impl ${2:MyContract} {
        #[ink(constructor)]
        pub fn new(init_value: bool) -> Self {
            Self { value: init_value }
        }

        #[ink(constructor)]
        pub fn default() -> Self {
            Self::new(Default::default())
        }

        #[ink(message)]
        pub fn get(&self) -> bool {
            self.value
        }

        #[ink(message)]
        pub fn flip(&mut self) {
            self.value = !self.value;
        }
    }

    #[cfg(test)]
    mod tests {
        use super::*;

        #[ink::test]
        fn it_works() {
            let mut instance = ${2:MyContract}::new(false);
            assert_eq!(instance.get(), false);
            instance.flip();
            assert_eq!(instance.get(), true);
        }
    }
}
`

const cargoTomlPlain = `[package]
name = "my_contract"
version = "0.1.0"
edition = "2021"

[dependencies]
ink = { version = "5.0.0", default-features = false }

[dev-dependencies]
ink_e2e = { version = "5.0.0" }

[lib]
path = "lib.rs"

[features]
default = ["std"]
std = ["ink/std"]
ink-as-dependency = []
e2e-tests = []
`

const cargoTomlSnippet = `[package]
name = "my_contract"
version = "${1:0.1.0}"
edition = "${2:2021}"

[dependencies]
ink = { version = "${3:5.0.0}", default-features = false }

[dev-dependencies]
ink_e2e = { version = "${3:5.0.0}" }

[lib]
path = "lib.rs"

[features]
default = ["std"]
std = ["ink/std"]
ink-as-dependency = []
e2e-tests = []
`

// NewProject returns the code stubs for a new ink! project with the
// given package name. The name must be a valid Rust package name and
// must begin with an alphabetic character.
func NewProject(name string) (*Project, error) {
	if name == "" {
		return nil, ErrPackageName
	}
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '-' {
			return nil, ErrPackageName
		}
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		return nil, ErrContractName
	}

	moduleName := strings.ReplaceAll(name, "-", "_")
	structName := pascalCase(moduleName)

	return &Project{
		Lib: ProjectFile{
			Plain:   renderContract(contractPlain, moduleName, structName),
			Snippet: renderContract(contractSnippet, moduleName, structName),
		},
		Cargo: ProjectFile{
			Plain:   strings.ReplaceAll(cargoTomlPlain, "my_contract", name),
			Snippet: strings.ReplaceAll(cargoTomlSnippet, "my_contract", name),
		},
	}, nil
}

func renderContract(template, moduleName, structName string) string {
	out := strings.ReplaceAll(template, "my_contract", moduleName)
	return strings.ReplaceAll(out, "MyContract", structName)
}

// pascalCase converts a snake_case name to PascalCase.
func pascalCase(name string) string {
	var b strings.Builder
	upper := true
	for _, c := range name {
		if c == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(c))
			upper = false
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}
