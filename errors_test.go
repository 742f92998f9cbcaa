package qmlgen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/qmlgen/csharp"
	"github.com/broady/qmlgen/provider"
)

func TestConfigError(t *testing.T) {
	err := validateConfig(applyConfigDefaults(&Config{LineEnding: "cr", IndentSize: 99}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t,
		"qmlgen: invalid configuration: IndentSize: must be at most 16; LineEnding: must be one of: lf crlf",
		err.Error())
}

func TestConfigError_Namespaces(t *testing.T) {
	err := validateConfig(applyConfigDefaults(&Config{FallbackNamespace: "2D", DocumentClassSuffix: "."}))
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, `"2D" is not a valid namespace`, ce.Fields["FallbackNamespace"])
	assert.Equal(t, `"." cannot be appended to a class name`, ce.Fields["DocumentClassSuffix"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{nil, ""},
		{context.Canceled, CodeCanceled},
		{fmt.Errorf("run: %w", context.DeadlineExceeded), CodeCanceled},
		{&ConfigError{Fields: map[string]string{"IndentSize": "bad"}}, CodeInvalidConfig},
		{fmt.Errorf("generate: %w", ErrInvalidGraph), CodeInvalidGraph},
		{&csharp.MemberError{Type: "Item", Member: "p", Err: ErrUnmappable}, CodeUnmappable},
		{fmt.Errorf("load: %w", provider.ErrSnapshot), CodeInvalidInput},
		{provider.ErrInvalidModuleSpec, CodeInvalidInput},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "Classify(%v)", tt.err)
	}
}

func TestErrorCode_ExitStatus(t *testing.T) {
	assert.Equal(t, 2, CodeInvalidConfig.ExitStatus())
	assert.Equal(t, 2, CodeInvalidInput.ExitStatus())
	assert.Equal(t, 3, CodeInvalidGraph.ExitStatus())
	assert.Equal(t, 3, CodeUnmappable.ExitStatus())
	assert.Equal(t, 130, CodeCanceled.ExitStatus())
	assert.Equal(t, 1, CodeInternal.ExitStatus())
}
