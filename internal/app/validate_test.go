package app

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidateCmd(t *testing.T) {
	t.Parallel()

	setup := func() (*MockManager, *cobra.Command) {
		mgr := &MockManager{}
		cmd := NewValidateCmd(mgr)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		// Add the persistent flags that NewValidateCmd expects from root
		cmd.Flags().Bool("nocolour", false, "")
		return mgr, cmd
	}

	base := ValidateRequest{
		Schema:    "person.schema.json",
		Inputs:    []string{"alice.json"},
		DataMode:  DataModeFile,
		Format:    "text",
		UseColour: true,
	}

	tests := []struct {
		name string
		args []string
		want func(r ValidateRequest) ValidateRequest
	}{
		{
			name: "defaults",
			args: []string{"-s", "person.schema.json", "alice.json"},
			want: func(r ValidateRequest) ValidateRequest { return r },
		},
		{
			name: "several inputs",
			args: []string{"--schema", "person.schema.json", "alice.json", "people/*.json"},
			want: func(r ValidateRequest) ValidateRequest {
				r.Inputs = []string{"alice.json", "people/*.json"}
				return r
			},
		},
		{
			name: "validation options",
			args: []string{
				"-s", "person.schema.json", "alice.json", "--strict", "--list", "--insert-defaults",
				"--validate-schema", "--version", "draft3", "--fragment", "#/definitions/a",
			},
			want: func(r ValidateRequest) ValidateRequest {
				r.Strict = true
				r.List = true
				r.InsertDefaults = true
				r.ValidateSchema = true
				r.Version = "draft3"
				r.Fragment = "#/definitions/a"
				return r
			},
		},
		{
			name: "data options",
			args: []string{"-s", "person.schema.json", "alice.json", "--data-mode", "uri", "-q", "a.b", "--cross-check"},
			want: func(r ValidateRequest) ValidateRequest {
				r.DataMode = DataModeURI
				r.Query = "a.b"
				r.CrossCheck = true
				return r
			},
		},
		{
			name: "output options",
			args: []string{"-s", "person.schema.json", "alice.json", "-o", "json", "-v", "-j", "3", "--nocolour"},
			want: func(r ValidateRequest) ValidateRequest {
				r.Format = "json"
				r.Verbose = true
				r.Jobs = 3
				r.UseColour = false
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mgr, cmd := setup()
			mgr.On("Validate", mock.Anything, tt.want(base)).Return(nil).Once()

			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.ExecuteContext(context.Background()))
			mgr.AssertExpectations(t)
		})
	}

	t.Run("watch flag", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup()
		mgr.On("WatchValidation", mock.Anything, base, (chan<- struct{})(nil)).Return(nil).Once()

		cmd.SetArgs([]string{"-s", "person.schema.json", "alice.json", "--watch"})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		mgr.AssertExpectations(t)
	})

	t.Run("manager error is returned", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup()
		mgr.On("Validate", mock.Anything, base).Return(assert.AnError).Once()

		cmd.SetArgs([]string{"-s", "person.schema.json", "alice.json"})
		require.ErrorIs(t, cmd.ExecuteContext(context.Background()), assert.AnError)
	})

	t.Run("no data errors", func(t *testing.T) {
		t.Parallel()
		_, cmd := setup()
		cmd.SetArgs([]string{"-s", "person.schema.json"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("missing schema flag errors", func(t *testing.T) {
		t.Parallel()
		_, cmd := setup()
		cmd.SetArgs([]string{"alice.json"})
		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("invalid data mode", func(t *testing.T) {
		t.Parallel()
		_, cmd := setup()
		cmd.SetArgs([]string{"-s", "person.schema.json", "alice.json", "--data-mode", "yaml"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("invalid output", func(t *testing.T) {
		t.Parallel()
		_, cmd := setup()
		cmd.SetArgs([]string{"-s", "person.schema.json", "alice.json", "-o", "xml"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})
}

func TestCheckSchemaCmd(t *testing.T) {
	t.Parallel()

	t.Run("passes schema and options", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		mgr.On("CheckSchema", mock.Anything, CheckRequest{Schema: "a.json", Version: "draft6", Format: "json"}).
			Return(nil).Once()

		cmd := NewCheckSchemaCmd(mgr)
		cmd.SetArgs([]string{"a.json", "--version", "draft6", "-o", "json"})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		mgr.AssertExpectations(t)
	})

	t.Run("requires exactly one schema", func(t *testing.T) {
		t.Parallel()
		cmd := NewCheckSchemaCmd(&MockManager{})
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})
}

func TestDialectsCmd(t *testing.T) {
	t.Parallel()
	mgr := &MockManager{}
	mgr.On("ListDialects", mock.Anything, "text").Return(nil).Once()

	cmd := NewDialectsCmd(mgr)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	mgr.AssertExpectations(t)
}
