// 包 proximity：站点邻近关系的核心计算（距离矩阵、高程匹配、结果表组装）
package proximity

import (
	"sort"
	"sync"

	"station-proximity/internal/geo"
	"station-proximity/internal/station"
)

// Matrix：站点两两大圆距离（千米）
// 背景：只存上三角，按任一顺序查询返回同一数值；不记录自身配对
// 约束：站点规模为数十到数千，O(n²) 构建是有意为之，不引入空间索引
type Matrix struct {
	names  []string
	index  map[string]int
	byName []int // 按站名升序的下标
	dist   []float64
}

func newMatrix(stations []station.Station) *Matrix {
	n := len(stations)
	m := &Matrix{
		names:  make([]string, n),
		index:  make(map[string]int, n),
		byName: make([]int, n),
		dist:   make([]float64, n*(n-1)/2),
	}
	for i, s := range stations {
		m.names[i] = s.Name
		m.index[s.Name] = i
		m.byName[i] = i
	}
	sort.SliceStable(m.byName, func(a, b int) bool { return m.names[m.byName[a]] < m.names[m.byName[b]] })
	return m
}

// BuildMatrix：顺序计算全部 n(n-1)/2 个无序对
func BuildMatrix(stations []station.Station) *Matrix {
	m := newMatrix(stations)
	for i := range stations {
		m.fillRow(stations, i)
	}
	return m
}

// BuildMatrixParallel：按行划分给 workers 个协程计算，结果与 BuildMatrix 完全一致
// 约束：每行只写自己的上三角区段，互不重叠，无需加锁；workers<=1 时退化为顺序计算
func BuildMatrixParallel(stations []station.Station, workers int) *Matrix {
	if workers <= 1 || len(stations) < 2 {
		return BuildMatrix(stations)
	}
	m := newMatrix(stations)
	rows := make(chan int, len(stations))
	for i := range stations {
		rows <- i
	}
	close(rows)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				m.fillRow(stations, i)
			}
		}()
	}
	wg.Wait()
	return m
}

func (m *Matrix) fillRow(stations []station.Station, i int) {
	a := stations[i].Point()
	for j := i + 1; j < len(stations); j++ {
		m.dist[m.offset(i, j)] = geo.Distance(a, stations[j].Point())
	}
}

// offset：i<j 时上三角的线性位置
func (m *Matrix) offset(i, j int) int {
	n := len(m.names)
	return i*(2*n-i-1)/2 + (j - i - 1)
}

// Len：站点数
func (m *Matrix) Len() int { return len(m.names) }

// Pairs：有序对数量 n(n-1)
func (m *Matrix) Pairs() int { return 2 * len(m.dist) }

// Distance：查询两站距离；同一站或未知站名返回 false
func (m *Matrix) Distance(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok || i == j {
		return 0, false
	}
	if i > j {
		i, j = j, i
	}
	return m.dist[m.offset(i, j)], true
}

// Within：距离不超过 maxKm 的其他站，按站名升序
// 约束：同名站一律视为自身，不出现在名单中
func (m *Matrix) Within(name string, maxKm float64) []string {
	out := make([]string, 0)
	i, ok := m.index[name]
	if !ok {
		return out
	}
	for _, j := range m.byName {
		if j == i || m.names[j] == name {
			continue
		}
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		if m.dist[m.offset(lo, hi)] <= maxKm {
			out = append(out, m.names[j])
		}
	}
	return out
}
