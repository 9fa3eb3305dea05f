package entity_test

import (
	"image"
	"math"
	"testing"

	"github.com/ByLCY/textsprite/entity"
	canvasrenderer "github.com/ByLCY/textsprite/renderer/canvas"
	"github.com/ByLCY/textsprite/style"
)

func painted(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func TestTextOnCanvasPool(t *testing.T) {
	pool := canvasrenderer.NewPool(nil)
	txt, err := entity.New(pool, 10, 10, "Hello\nWorld!", style.Options{
		Font:  style.Ptr("20px monospace"),
		Color: style.Ptr("#000"),
	}, entity.WithMetricsProvider(style.NewCachedProvider(8)))
	if err != nil {
		t.Fatalf("创建文本失败: %v", err)
	}
	if pool.InUse() != 1 {
		t.Fatalf("应占用一个画布")
	}

	snap := txt.Layout()
	if len(snap.Lines) != 2 || snap.Block.LineWidths[1] <= snap.Block.LineWidths[0] {
		t.Fatalf("等宽字体下第二行应更宽: %+v", snap.Block)
	}
	w, h := txt.Surface().Size()
	if w != int(math.Round(txt.Width())) || h != int(math.Round(txt.Height())) {
		t.Fatalf("画布尺寸 %dx%d 与逻辑尺寸 %g×%g 不一致", w, h, txt.Width(), txt.Height())
	}
	if painted(txt.Surface().Image()) == 0 {
		t.Fatalf("画布上应有文字像素")
	}

	if err := txt.SetResolution(2); err != nil {
		t.Fatal(err)
	}
	if w2, h2 := txt.Surface().Size(); w2 != int(math.Round(txt.Width()*2)) || h2 != int(math.Round(txt.Height()*2)) {
		t.Fatalf("分辨率 2 下画布尺寸不正确: %dx%d", w2, h2)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	txt.Draw(dst)
	if painted(dst) == 0 {
		t.Fatalf("合成到目标图像后应有像素")
	}
	if painted(dst.SubImage(image.Rect(0, 0, 10, 10))) != 0 {
		t.Fatalf("位置 (10,10) 左上方不应有像素")
	}

	txt.Destroy()
	if pool.InUse() != 0 || pool.Free() != 1 {
		t.Fatalf("销毁后画布应回到池中: inUse=%d free=%d", pool.InUse(), pool.Free())
	}
}
