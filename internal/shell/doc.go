// Package shell is the subprocess boundary of the release workflow.
//
// Every external tool (packager, dependency installer, version control) is
// invoked through the Runner interface so pipeline stages stay testable
// without real binaries on PATH. ExecRunner is the production
// implementation; FakeRunner records invocations for tests.
package shell
