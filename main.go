package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/textsprite/binding"
	"github.com/ByLCY/textsprite/entity"
	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
	canvasrenderer "github.com/ByLCY/textsprite/renderer/canvas"
	"github.com/ByLCY/textsprite/style"
)

// options 是一次命令行渲染的全部输入。
type options struct {
	text       string
	input      string
	dataJSON   string
	stylePath  string
	output     string
	debugPath  string
	resolution float64
	padding    float64
	fonts      []fontFlag
}

// fontFlag 对应 -font Family[:style]=path。
type fontFlag struct {
	family string
	style  string
	path   string
}

func parseFontFlag(v string) (fontFlag, error) {
	name, path, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return fontFlag{}, fmt.Errorf("字体参数应为 Family[:style]=path，实际 %q", v)
	}
	family, fs, _ := strings.Cut(name, ":")
	if strings.TrimSpace(family) == "" {
		return fontFlag{}, fmt.Errorf("字体参数缺少字体族: %q", v)
	}
	return fontFlag{family: strings.TrimSpace(family), style: strings.TrimSpace(fs), path: strings.TrimSpace(path)}, nil
}

func main() {
	var opts options
	flag.StringVar(&opts.text, "text", "Hello, textsprite!", "要渲染的文本，支持 ${path} 占位符")
	flag.StringVar(&opts.input, "in", "", "从文件读取文本（优先于 -text）")
	flag.StringVar(&opts.dataJSON, "data", "", "绑定到文本占位符的 JSON 数据")
	flag.StringVar(&opts.stylePath, "style", "", "样式 JSON 文件路径")
	flag.StringVar(&opts.output, "out", "output/text.png", "输出路径（.png 或 .pdf）")
	flag.StringVar(&opts.debugPath, "debug", "", "布局调试 JSON 输出路径")
	flag.Float64Var(&opts.resolution, "resolution", 1, "设备像素倍率")
	flag.Float64Var(&opts.padding, "padding", 0, "四周留白（逻辑像素）")
	flag.Func("font", "注册字体 Family[:style]=path，可重复", func(v string) error {
		f, err := parseFontFlag(v)
		if err != nil {
			return err
		}
		opts.fonts = append(opts.fonts, f)
		return nil
	})
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(opts); err != nil {
		log.Fatalf("渲染文本失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", opts.output)
}

// run 串联数据绑定、样式加载、布局与输出。
func run(opts options) error {
	text := opts.text
	if opts.input != "" {
		raw, err := os.ReadFile(opts.input)
		if err != nil {
			return fmt.Errorf("无法读取文本文件 %s: %w", opts.input, err)
		}
		text = string(raw)
	}

	var data any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	text = binding.Interpolate(text, data)

	styleOpts, baseDir, err := loadStyle(opts.stylePath)
	if err != nil {
		return err
	}

	reg := canvasrenderer.NewFontRegistry(baseDir)
	for _, f := range opts.fonts {
		if err := reg.Register(f.family, f.style, canvasrenderer.Resource{Path: f.path}); err != nil {
			return fmt.Errorf("注册字体失败: %w", err)
		}
	}

	pool := canvasrenderer.NewPool(reg)
	txt, err := entity.New(pool, 0, 0, text, styleOpts,
		entity.WithResolution(opts.resolution),
		entity.WithPadding(opts.padding, opts.padding),
	)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	defer txt.Destroy()

	if opts.debugPath != "" {
		if err := writeDebug(txt.Layout(), opts.debugPath); err != nil {
			return err
		}
	}
	return writeOutput(txt, opts.output)
}

// loadStyle 读取样式 JSON；相对字体路径以样式文件所在目录为基准。
func loadStyle(path string) (style.Options, string, error) {
	var opts style.Options
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return opts, "", fmt.Errorf("获取工作目录失败: %w", err)
		}
		return opts, wd, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, "", fmt.Errorf("无法读取样式文件 %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, "", fmt.Errorf("解析样式文件 %s 失败: %w", path, err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return opts, "", fmt.Errorf("解析样式目录失败: %w", err)
	}
	return opts, dir, nil
}

func writeOutput(txt *entity.Text, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(outputPath)); ext {
	case ".pdf":
		surface, ok := txt.Surface().(*canvasrenderer.Surface)
		if !ok {
			return fmt.Errorf("当前画布不支持 PDF 导出")
		}
		if err := surface.WritePDF(&buf); err != nil {
			return err
		}
	case ".png":
		if err := png.Encode(&buf, txt.Surface().Image()); err != nil {
			return fmt.Errorf("编码 PNG 失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的输出格式 %q（仅支持 .png、.pdf）", ext)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(snap layout.Snapshot, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(&snap, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
