package scene

const numpyImport = "import numpy as np"

func introTitle(b *Builder, text string, fontSize int) {
	b.Let("title", "Text("+pyString(text)+", font_size="+itoa(fontSize)+")")
	b.Play(Write("title"))
	b.Play(Animate("title", ".to_edge(UP)"))
	b.Blank()
}

func shapeTransform(b *Builder, _ string) {
	introTitle(b, "Shape Transformation", 48)
	b.Let("circle", "Circle(radius=1.5, color=BLUE, fill_opacity=0.5)")
	b.Let("square", "Square(side_length=3, color=RED, fill_opacity=0.5)")
	b.Blank()
	b.Play(Create("circle"))
	b.Wait(1)
	b.PlayWith(PlayOptions{RunTime: 2}, Transform("circle", "square"))
	b.Wait(1)
	b.Clear()
}

func pythagorean(b *Builder, _ string) {
	introTitle(b, "Pythagorean Theorem", 40)
	b.Comment("Right triangle")
	b.Let("triangle", "Polygon([-2, -1.5, 0], [2, -1.5, 0], [-2, 1.5, 0], color=WHITE, fill_opacity=0.3)")
	b.Blank()
	b.Comment("Squares on each side")
	b.Let("square_a", "Square(side_length=2.5, color=BLUE, fill_opacity=0.3).shift(LEFT * 3)")
	b.Let("square_b", "Square(side_length=2, color=GREEN, fill_opacity=0.3).shift(DOWN * 2.5)")
	b.Let("square_c", "Square(side_length=3.2, color=RED, fill_opacity=0.3).shift(RIGHT * 1.5 + UP * 0.5)")
	b.Blank()
	b.Let("label_a", `MathTex("a^2", color=BLUE).next_to(square_a, LEFT)`)
	b.Let("label_b", `MathTex("b^2", color=GREEN).next_to(square_b, DOWN)`)
	b.Let("label_c", `MathTex("c^2", color=RED).next_to(square_c, RIGHT)`)
	b.Let("formula", `MathTex("a^2 + b^2 = c^2", font_size=48).to_edge(DOWN)`)
	b.Blank()
	b.Play(Create("triangle"))
	b.Wait(0.5)
	b.Play(FadeIn("square_a"), Write("label_a"))
	b.Play(FadeIn("square_b"), Write("label_b"))
	b.Play(FadeIn("square_c"), Write("label_c"))
	b.Wait(1)
	b.Play(Write("formula"))
	b.Wait(2)
	b.Clear()
}

func trigWave(b *Builder, _ string) {
	b.Import(numpyImport)
	introTitle(b, "Trigonometric Functions", 40)
	b.Let("axes", `Axes(x_range=[-4, 4, 1], y_range=[-2, 2, 1], axis_config={"color": GREY}, x_length=8, y_length=4)`)
	b.Blank()
	b.Let("sine_graph", "axes.plot(lambda x: np.sin(x), color=RED, x_range=[-4, 4])")
	b.Let("cosine_graph", "axes.plot(lambda x: np.cos(x), color=BLUE, x_range=[-4, 4])")
	b.Let("sine_label", `MathTex(r"y = \sin(x)", color=RED).to_edge(RIGHT).shift(UP)`)
	b.Let("cosine_label", `MathTex(r"y = \cos(x)", color=BLUE).to_edge(RIGHT)`)
	b.Blank()
	b.Play(Create("axes"))
	b.Play(Create("sine_graph"), Write("sine_label"))
	b.Wait(1)
	b.Play(Create("cosine_graph"), Write("cosine_label"))
	b.Wait(2)
	b.Clear()
}

// bounceHeights are the rebound heights after the ball first hits the ground.
var bounceHeights = []string{"1.5", "1", "0.5"}

func bouncingPhysics(b *Builder, _ string) {
	introTitle(b, "Bouncing Ball Physics", 40)
	b.Let("ground", "Line(LEFT * 5, RIGHT * 5, color=GREY).shift(DOWN * 2.5)")
	b.Let("ball", "Circle(radius=0.3, color=RED, fill_opacity=1).shift(UP * 2)")
	b.Blank()
	b.Play(Create("ground"))
	b.Play(FadeIn("ball"))
	b.Blank()
	b.Comment("Fall to the ground, then bounce with decreasing height")
	fall := PlayOptions{RunTime: 0.6, RateFunc: "rate_functions.rush_into"}
	up := PlayOptions{RunTime: 0.4, RateFunc: "rate_functions.rush_from"}
	down := PlayOptions{RunTime: 0.4, RateFunc: "rate_functions.rush_into"}
	b.PlayWith(fall, Animate("ball", ".shift(DOWN * 4.2)"))
	for _, h := range bounceHeights {
		b.PlayWith(up, Animate("ball", ".shift(UP * "+h+")"))
		b.PlayWith(down, Animate("ball", ".shift(DOWN * "+h+")"))
	}
	b.Blank()
	b.Wait(1)
	b.Clear()
}

func quadratic(b *Builder, _ string) {
	b.Import(numpyImport)
	introTitle(b, "Quadratic Function", 40)
	b.Let("axes", `Axes(x_range=[-4, 4, 1], y_range=[-2, 8, 2], axis_config={"color": GREY}, x_length=8, y_length=6)`)
	b.Blank()
	b.Let("parabola", "axes.plot(lambda x: x**2, color=GREEN, x_range=[-2.5, 2.5])")
	b.Let("formula", `MathTex("f(x) = x^2", font_size=36).to_edge(RIGHT).shift(UP)`)
	b.Let("vertex", "Dot(axes.c2p(0, 0), color=RED)")
	b.Let("vertex_label", `Text("Vertex", font_size=24).next_to(vertex, DOWN)`)
	b.Blank()
	b.Play(Create("axes"))
	b.Play(Create("parabola"), Write("formula"))
	b.Wait(1)
	b.Play(FadeIn("vertex"), Write("vertex_label"))
	b.Wait(2)
	b.Clear()
}

func derivative(b *Builder, _ string) {
	b.Import(numpyImport)
	introTitle(b, "Derivative Visualization", 40)
	b.Let("axes", `Axes(x_range=[-3, 3, 1], y_range=[-4, 4, 1], axis_config={"color": GREY})`)
	b.Blank()
	b.Let("func", "axes.plot(lambda x: x**2 - 2, color=BLUE, x_range=[-2.5, 2.5])")
	b.Let("func_label", `MathTex("f(x) = x^2 - 2", color=BLUE).to_edge(RIGHT).shift(UP * 2)`)
	b.Let("derivative", "axes.plot(lambda x: 2 * x, color=RED, x_range=[-2.5, 2.5])")
	b.Let("deriv_label", `MathTex("f'(x) = 2x", color=RED).to_edge(RIGHT).shift(UP * 0.5)`)
	b.Blank()
	b.Play(Create("axes"))
	b.Play(Create("func"), Write("func_label"))
	b.Wait(1)
	b.Play(Create("derivative"), Write("deriv_label"))
	b.Wait(2)
	b.Clear()
}

func generic(b *Builder, title string) {
	introTitle(b, title, 36)
	b.Let("circle", "Circle(radius=1, color=BLUE, fill_opacity=0.5)")
	b.Let("square", "Square(side_length=2, color=RED, fill_opacity=0.5)")
	b.Let("triangle", "Triangle(color=GREEN, fill_opacity=0.5)")
	b.Let("shapes", "VGroup(circle, square, triangle).arrange(RIGHT, buff=1)")
	b.Blank()
	b.Let("equation", `MathTex(r"\pi r^2 + s^2 = A").scale(1.2)`)
	b.Stmt("equation.to_edge(DOWN)")
	b.Blank()
	b.Play(Create("circle"), Create("square"), Create("triangle"))
	b.Wait(1)
	b.Play(
		Animate("circle", ".shift(UP * 0.5)"),
		Animate("square", ".rotate(PI / 4)"),
		Animate("triangle", ".scale(1.3)"),
	)
	b.Wait(0.5)
	b.Play(Write("equation"))
	b.Wait(1)
	b.Play(Animate("shapes", ".arrange(DOWN, buff=0.5)"))
	b.Wait(1)
	b.Clear()
}
