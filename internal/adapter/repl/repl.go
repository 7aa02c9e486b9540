package repl

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Nyukimin/polyclaw/internal/application/pipeline"
	"github.com/Nyukimin/polyclaw/internal/domain/interp"
	"github.com/Nyukimin/polyclaw/internal/domain/task"
)

// TurnProcessor は1ターンの会話を処理するアプリケーション層の入口
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, turn pipeline.Turn) (pipeline.Outcome, error)
}

// REPL は対話型端末モード
// 開発時の動作確認向けで、HTTP APIと同じパイプラインをそのまま使う
type REPL struct {
	processor TurnProcessor
	methodTag interp.Method
	outDir    string
	out       io.Writer
}

// New は新しいREPLを作成
// outDir は生成したグラフPNGの保存先（空の場合は一時ディレクトリ）
func New(processor TurnProcessor, outDir string) *REPL {
	if outDir == "" {
		outDir = filepath.Join(os.TempDir(), "polyclaw")
	}
	return &REPL{
		processor: processor,
		methodTag: interp.MethodAuto,
		outDir:    outDir,
		out:       os.Stdout,
	}
}

// Run は読み取りループを開始し、EOFまたは/quitで終了する
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.New("polyclaw> ")
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintln(r.out, "補間エージェント対話モード（/help でコマンド一覧、Ctrl+D で終了）")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read line: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(input); quit {
				return nil
			}
			continue
		}

		r.processInput(ctx, input)
	}
}

// handleCommand はスラッシュコマンドを処理。終了すべき場合はtrueを返す
func (r *REPL) handleCommand(input string) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprintln(r.out, "コマンド:")
		fmt.Fprintln(r.out, "  /method <name>  手法タグを設定 (lagrange/newton_forward/newton_backward/direct/hermite/auto)")
		fmt.Fprintln(r.out, "  /quit           終了")

	case "/method":
		if len(fields) < 2 {
			fmt.Fprintf(r.out, "現在の手法タグ: %s\n", r.methodTag)
			return false
		}
		m, err := interp.ParseMethod(fields[1])
		if err != nil {
			fmt.Fprintf(r.out, "エラー: %v\n", err)
			return false
		}
		r.methodTag = m
		fmt.Fprintf(r.out, "手法タグを %s に設定しました\n", m)

	default:
		fmt.Fprintf(r.out, "不明なコマンド: %s\n", fields[0])
	}

	return false
}

// processInput は1行の入力を1ターンとして処理し、結果を表示する
func (r *REPL) processInput(ctx context.Context, input string) {
	turn := pipeline.Turn{
		ID:        task.NewTurnID(),
		Text:      input,
		MethodTag: r.methodTag,
	}

	outcome, err := r.processor.ProcessTurn(ctx, turn)
	if err != nil {
		fmt.Fprintf(r.out, "エラー: %v\n", err)
		return
	}

	if outcome.IsChat() {
		fmt.Fprintln(r.out, outcome.Chat)
		return
	}

	for i, res := range outcome.Results {
		fmt.Fprintf(r.out, "--- リクエスト %d (%s) ---\n", i+1, res.Method)
		fmt.Fprintf(r.out, "P(x) = %s\n", FormatPolynomial(res.Coefficients))

		for _, ev := range res.FormattedResults {
			fmt.Fprintf(r.out, "P(%g) = %g\n", ev.X, ev.Y)
		}

		if len(res.ImagePNG) > 0 {
			path := filepath.Join(r.outDir, fmt.Sprintf("%s-%d.png", turn.ID, i+1))
			if err := os.WriteFile(path, res.ImagePNG, 0o644); err != nil {
				fmt.Fprintf(r.out, "グラフの保存に失敗しました: %v\n", err)
			} else {
				fmt.Fprintf(r.out, "グラフ: %s\n", path)
			}
		}
	}
}

// FormatPolynomial は係数列（昇冪）を人間向けの多項式表記に整形
func FormatPolynomial(coeffs []float64) string {
	var b strings.Builder

	for i, c := range coeffs {
		if c == 0 && len(coeffs) > 1 {
			continue
		}

		abs := math.Abs(c)
		if b.Len() == 0 {
			if c < 0 {
				b.WriteString("-")
			}
		} else {
			if c < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		}

		switch {
		case i == 0:
			fmt.Fprintf(&b, "%.6g", abs)
		case abs == 1:
			b.WriteString(term(i))
		default:
			fmt.Fprintf(&b, "%.6g%s", abs, term(i))
		}
	}

	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// term はx項の表記を返す
func term(power int) string {
	if power == 1 {
		return "x"
	}
	return fmt.Sprintf("x^%d", power)
}
