package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/nft-layer-kit/pkg/generator"
)

// DefaultAccessEndpoint はウォレットのアクセス確認 API です。
const DefaultAccessEndpoint = "https://api.pedroinjraccoon.online"

// AccessGate はウォレットアドレスごとの利用可否を HTTP で確認します。
// GET {endpoint}/check/{address}/ の応答が "yes" のときだけ許可します。
type AccessGate struct {
	httpClient httpkit.ClientInterface
	endpoint   string
	address    string
}

var _ generator.Gate = (*AccessGate)(nil)

// NewAccessGate は依存関係を注入して AccessGate を初期化します。
func NewAccessGate(httpClient httpkit.ClientInterface, endpoint, address string) (*AccessGate, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("wallet address is required")
	}
	if endpoint == "" {
		endpoint = DefaultAccessEndpoint
	}
	return &AccessGate{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		address:    strings.TrimSpace(address),
	}, nil
}

// Authorize は設定済みアドレスで Check を呼びます。
func (g *AccessGate) Authorize(ctx context.Context) (bool, error) {
	return g.Check(ctx, g.address)
}

// Check は address の利用可否を問い合わせます。
func (g *AccessGate) Check(ctx context.Context, address string) (bool, error) {
	checkURL := g.endpoint + "/check/" + url.PathEscape(address) + "/"
	body, err := g.httpClient.FetchBytes(ctx, checkURL)
	if err != nil {
		return false, fmt.Errorf("access check for %s: %w", address, err)
	}
	ok := isAffirmative(body)
	if !ok {
		slog.WarnContext(ctx, "アクセスが許可されていないウォレットです", "address", address)
	}
	return ok, nil
}

// isAffirmative は JSON 文字列 "yes" と素の yes の両方を許可として扱います。
func isAffirmative(body []byte) bool {
	s := strings.TrimSpace(string(body))
	return s == `"yes"` || s == "yes"
}

// PaymentGate は外部で行われた支払いの結果を不透明な真偽値として扱います。
type PaymentGate struct {
	confirm func(ctx context.Context) (bool, error)
}

var _ generator.Gate = (*PaymentGate)(nil)

// NewPaymentGate は支払い確認関数から PaymentGate を作ります。
func NewPaymentGate(confirm func(ctx context.Context) (bool, error)) *PaymentGate {
	return &PaymentGate{confirm: confirm}
}

// ConfirmedPayment は確認済みかどうかが既に分かっている場合の PaymentGate です。
func ConfirmedPayment(confirmed bool) *PaymentGate {
	return NewPaymentGate(func(context.Context) (bool, error) {
		return confirmed, nil
	})
}

func (g *PaymentGate) Authorize(ctx context.Context) (bool, error) {
	if g.confirm == nil {
		return false, nil
	}
	return g.confirm(ctx)
}
