package texts

// DefaultCustomPrompt is used in custom mode when no passage is available.
const DefaultCustomPrompt = "Type your custom text here. You can paste any text you want to practice with."

var proseSamples = []string{
	"The quick brown fox jumps over the lazy dog. This sentence uses every letter of the alphabet, which makes it a favourite warm up. Pack my box with five dozen liquor jugs. Sphinx of black quartz, judge my vow!",
	"Rain drummed on the tin roof of the workshop while the old clockmaker leaned over his bench. Tiny gears lay in neat rows beside a magnifying glass, and each one would find its place before the night was over.",
	"Good typing is mostly about rhythm. Keep your wrists relaxed, let your eyes stay on the text, and resist the urge to look down at the keys. Speed follows accuracy, so slow down whenever the mistakes start to pile up.",
	"The ferry left the harbour just after dawn, cutting a white line across the grey water. Gulls followed it for a while, then turned back toward the cliffs where the lighthouse still blinked its patient warning.",
	"Every library has a quiet corner where time seems to stop. The shelves lean a little, the lamps hum softly, and somewhere between two forgotten atlases a reader loses an entire afternoon without noticing.",
	"Fresh bread, strong coffee, and a window facing east: some mornings need nothing more. The street below wakes slowly, shutters rattle open, and the first bicycles hiss past on the damp cobblestones.",
}

var codeSamples = []string{
	`func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}`,
	`type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}`,
	`for i, line := range lines {
	if strings.TrimSpace(line) == "" {
		continue
	}
	fmt.Printf("%3d: %s\n", i+1, line)
}`,
	`def merge(left, right):
    out = []
    while left and right:
        out.append(left.pop(0) if left[0] <= right[0] else right.pop(0))
    return out + left + right`,
	`SELECT name, COUNT(*) AS total
FROM orders
WHERE created_at > '2024-01-01'
GROUP BY name
ORDER BY total DESC;`,
	`const debounce = (fn, ms) => {
  let timer;
  return (...args) => {
    clearTimeout(timer);
    timer = setTimeout(() => fn(...args), ms);
  };
};`,
}
