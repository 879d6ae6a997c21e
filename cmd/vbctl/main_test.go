package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vecbrowse/internal/commands"
	"github.com/kailas-cloud/vecbrowse/internal/config"
	"github.com/kailas-cloud/vecbrowse/internal/domain"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
)

type fakeHandlers struct {
	result commands.Result
	err    error

	op     string
	region string
	args   []string
	req    listing.PageRequest
}

func (f *fakeHandlers) GetBucketList(_ context.Context, region string, req listing.PageRequest) (commands.Result, error) {
	f.op, f.region, f.req = "buckets", region, req
	return f.result, f.err
}

func (f *fakeHandlers) GetBucketIndexes(
	_ context.Context, region, bucket string, req listing.PageRequest,
) (commands.Result, error) {
	f.op, f.region, f.args, f.req = "indexes", region, []string{bucket}, req
	return f.result, f.err
}

func (f *fakeHandlers) GetBucketVectors(
	_ context.Context, region, bucket, index string, req listing.PageRequest,
) (commands.Result, error) {
	f.op, f.region, f.args, f.req = "vectors", region, []string{bucket, index}, req
	return f.result, f.err
}

// execute runs rootCmd with args against fake, resetting flag state afterwards.
func execute(t *testing.T, fake *fakeHandlers, args ...string) (stdout, stderr string, cfg config.Config, err error) {
	t.Helper()

	orig := newHandlers
	newHandlers = func(c config.Config) handlers {
		cfg = c
		return fake
	}
	t.Cleanup(func() {
		newHandlers = orig
		envName, region, profile, endpointURL = "", "", "", ""
		maxResults, nextToken, fetchAll, verbose = 0, "", false, false
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--env", "vbctl-test-missing"}, args...))

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), cfg, err
}

func TestBuckets_PrintsPayload(t *testing.T) {
	fake := &fakeHandlers{result: commands.Result{Payload: `[{"name":"media","arn":"arn:x"}]`}}

	stdout, stderr, cfg, err := execute(t, fake, "buckets")
	require.NoError(t, err)

	assert.Equal(t, "[{\"name\":\"media\",\"arn\":\"arn:x\"}]\n", stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, "buckets", fake.op)
	assert.Equal(t, "us-east-1", fake.region, "falls back to the default region")
	assert.Equal(t, 100, cfg.Listing.MaxPages)
	assert.Equal(t, listing.PageRequest{}, fake.req)
}

func TestIndexes_FlagsAndNextToken(t *testing.T) {
	fake := &fakeHandlers{result: commands.Result{Payload: "[]", NextToken: "tok-9"}}

	stdout, stderr, cfg, err := execute(t, fake,
		"indexes", "media",
		"--region", "eu-west-1",
		"--profile", "dev",
		"--endpoint-url", "http://localhost:4566",
		"--max-results", "5",
		"--next-token", "tok-8",
	)
	require.NoError(t, err)

	assert.Equal(t, "[]\n", stdout)
	assert.Equal(t, "next token: tok-9\n", stderr)
	assert.Equal(t, "indexes", fake.op)
	assert.Equal(t, "eu-west-1", fake.region)
	assert.Equal(t, []string{"media"}, fake.args)
	assert.Equal(t, listing.PageRequest{Cursor: listing.Cursor{MaxResults: 5, NextToken: "tok-8"}}, fake.req)
	assert.Equal(t, "dev", cfg.AWS.Profile)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.EndpointURL)
}

func TestVectors_All(t *testing.T) {
	fake := &fakeHandlers{result: commands.Result{Payload: `[{"key":"v1","data":[],"metadata":null}]`}}

	_, _, _, err := execute(t, fake, "vectors", "media", "movies", "--all")
	require.NoError(t, err)

	assert.Equal(t, "vectors", fake.op)
	assert.Equal(t, []string{"media", "movies"}, fake.args)
	assert.True(t, fake.req.All)
}

func TestListing_ErrorIsReturnedUnchanged(t *testing.T) {
	remote := domain.NewRemoteError("ListVectorBuckets", errors.New("AccessDenied"))
	fake := &fakeHandlers{err: remote}

	stdout, _, _, err := execute(t, fake, "buckets")
	require.Error(t, err)
	assert.Equal(t, "AccessDenied", err.Error())
	assert.Empty(t, stdout)
}

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"buckets takes no args", []string{"buckets", "extra"}},
		{"indexes needs bucket", []string{"indexes"}},
		{"vectors needs index", []string{"vectors", "media"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeHandlers{}
			_, _, _, err := execute(t, fake, tc.args...)
			require.Error(t, err)
			assert.Empty(t, fake.op, "handler must not run")
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"buckets", "indexes", "vectors"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}
