// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package cli provides the command line of code-search-provider.

Run without arguments, the binary is the search provider service: it stays
in the foreground until SIGINT or SIGTERM and is normally started by D-Bus
activation or a systemd user unit.

# Command Tree

	code-search-provider            Run the service
	code-search-provider --providers
	                                List the labels of all known providers
	├── manifests generate DIR      Write the search provider manifests
	├── manifests verify DIR        Check manifests against the provider table
	└── version                     Show version

# Exit Codes

0 on success, 1 on any failure. Startup failures are logged before exiting.
*/
package cli
