// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

// Package tracker implements the HTTP tracker announce request/response
// contract: build the GET request, parse the compact peer list out of the
// bencoded response. It never performs HTTP itself -- the actual round trip
// goes through an injected HTTPDoer so callers can substitute a fake
// transport in tests without touching the network.
package tracker

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skein-torrent/skein/bencode"
	"github.com/skein-torrent/skein/core"
)

const (
	// DefaultPort is the port advertised to the tracker when none is given.
	DefaultPort = 6881

	peerAddrLen = 6 // 4 bytes IPv4 + 2 bytes port
)

// HTTPDoer is the external HTTP collaborator the tracker client issues its
// announce request through. *http.Client satisfies this.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is a single tracker announce request.
type Request struct {
	InfoHash core.InfoHash
	PeerID   core.PeerID
	Port     int
	Left     int64
}

func (r Request) applyDefaults() Request {
	if r.Port == 0 {
		r.Port = DefaultPort
	}
	return r
}

// Response is the result of a successful announce.
type Response struct {
	Interval int64
	Peers    []core.Peer
}

// Client announces to a single tracker over HTTP.
type Client struct {
	doer HTTPDoer
}

// New creates a Client which issues requests through doer.
func New(doer HTTPDoer) *Client {
	return &Client{doer: doer}
}

// Announce sends an announce request to announceURL and parses the
// response's compact peer list.
func (c *Client) Announce(announceURL string, req Request) (*Response, error) {
	req = req.applyDefaults()

	u, err := buildURL(announceURL, req)
	if err != nil {
		return nil, fmt.Errorf("build announce url: %s", err)
	}

	httpReq, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %s", err)
	}

	httpResp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("announce: %s", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("announce: unexpected status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %s", err)
	}

	return parseResponse(body)
}

// buildURL constructs the announce GET URL. info_hash and peer_id are raw
// 20-byte strings, percent-encoded by url.Values like any other query
// parameter -- net/url already escapes non-unreserved bytes, matching the
// standard percent-encoding the tracker protocol requires.
func buildURL(announceURL string, req Request) (string, error) {
	u, err := url.Parse(announceURL)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("info_hash", string(req.InfoHash.Bytes()))
	q.Set("peer_id", string(req.PeerID[:]))
	q.Set("port", strconv.Itoa(req.Port))
	q.Set("uploaded", "0")
	q.Set("downloaded", "0")
	q.Set("left", strconv.FormatInt(req.Left, 10))
	q.Set("compact", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseResponse decodes a tracker's bencoded announce response. Tracker
// responses are not guaranteed to have canonically sorted dict keys, so
// decoding is tolerant of key order here even though metainfo decoding is
// strict.
func parseResponse(body []byte) (*Response, error) {
	v, err := bencode.DecodeFull(body, bencode.WithTolerantDictOrder())
	if err != nil {
		return nil, fmt.Errorf("decode tracker response: %s", err)
	}

	if reason, ok := v.GetString("failure reason"); ok {
		return nil, fmt.Errorf("tracker failure: %s", reason)
	}

	interval, _ := v.GetInt("interval")

	peersVal, ok := v.GetString("peers")
	if !ok {
		return nil, fmt.Errorf("decode tracker response: missing \"peers\"")
	}
	peers, err := parseCompactPeers(peersVal)
	if err != nil {
		return nil, err
	}

	return &Response{Interval: interval, Peers: core.Dedupe(peers)}, nil
}

func parseCompactPeers(b []byte) ([]core.Peer, error) {
	if len(b)%peerAddrLen != 0 {
		return nil, fmt.Errorf("decode tracker response: \"peers\" length %d not a multiple of %d", len(b), peerAddrLen)
	}
	n := len(b) / peerAddrLen
	peers := make([]core.Peer, n)
	for i := 0; i < n; i++ {
		chunk := b[i*peerAddrLen : (i+1)*peerAddrLen]
		ip := fmt.Sprintf("%d.%d.%d.%d", chunk[0], chunk[1], chunk[2], chunk[3])
		port := int(chunk[4])<<8 | int(chunk[5])
		peers[i] = core.Peer{IP: ip, Port: port}
	}
	return peers, nil
}
