package cloudip

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	provider string
	itemType string
	err      error
}

func (s stubChecker) Check(net.IP) (bool, string, string, error) {
	if s.err != nil {
		return false, "", "", s.err
	}

	return s.provider != "", s.provider, s.itemType, nil
}

func TestClassifyStaticRanges(t *testing.T) {
	c := New(WithChecker(nil))

	cases := []struct {
		ip       string
		provider string
	}{
		{ip: "52.1.2.3", provider: "aws"},
		{ip: "3.120.0.1", provider: "aws"},
		{ip: "13.70.0.1", provider: "azure"},
		{ip: "35.186.1.1", provider: "gcp"},
		{ip: "159.65.10.10", provider: "digitalocean"},
		{ip: "::ffff:54.10.0.1", provider: "aws"},
		{ip: "192.0.2.1", provider: ""},
		{ip: "not-an-ip", provider: ""},
	}

	for _, tc := range cases {
		t.Run(tc.ip, func(t *testing.T) {
			provider, ok := c.Classify(tc.ip)
			assert.Equal(t, tc.provider != "", ok)
			assert.Equal(t, tc.provider, provider)
		})
	}
}

func TestClassifyUsesChecker(t *testing.T) {
	cloud := New(WithChecker(stubChecker{provider: "oracle", itemType: "cloud"}))
	provider, ok := cloud.Classify("192.0.2.7")
	assert.True(t, ok)
	assert.Equal(t, "oracle", provider)

	cdn := New(WithChecker(stubChecker{provider: "cloudflare", itemType: "cdn"}))
	_, ok = cdn.Classify("192.0.2.7")
	assert.False(t, ok)

	failing := New(WithChecker(stubChecker{err: errors.New("boom")}))
	_, ok = failing.Classify("192.0.2.7")
	assert.False(t, ok)
}

func TestClassifyAny(t *testing.T) {
	c := New(WithChecker(nil))

	ip, provider, ok := c.ClassifyAny([]string{"192.0.2.1", "104.131.5.5"})
	assert.True(t, ok)
	assert.Equal(t, "104.131.5.5", ip)
	assert.Equal(t, "digitalocean", provider)

	_, _, ok = c.ClassifyAny(nil)
	assert.False(t, ok)
}
