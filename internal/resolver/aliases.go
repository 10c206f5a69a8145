package resolver

// Alias maps an authored exercise label to the catalog's canonical Korean
// name, with optional alternate catalog names tried in order.
type Alias struct {
	Canonical  string   `json:"canonical"`
	Alternates []string `json:"alternates,omitempty"`
}

// AliasTable is keyed by the exact authored label.
type AliasTable map[string]Alias

// DefaultAliases covers the labels used by the bundled programs.
var DefaultAliases = AliasTable{
	// Chest
	"Bench Press":            {Canonical: "바벨 벤치 프레스", Alternates: []string{"Barbell Bench Press", "Flat Bench Press"}},
	"Incline Barbell Press":  {Canonical: "인클라인 바벨 벤치 프레스", Alternates: []string{"Incline Bench Press"}},
	"Incline Dumbbell Press": {Canonical: "인클라인 덤벨 프레스"},
	"Flat Dumbbell Press":    {Canonical: "덤벨 벤치 프레스", Alternates: []string{"Dumbbell Bench Press"}},
	"Cable Crossover":        {Canonical: "케이블 크로스오버"},
	"Dips":                   {Canonical: "딥스", Alternates: []string{"Dips (Chest-focused)", "Chest Dips"}},
	"Push-ups":               {Canonical: "푸시업", Alternates: []string{"Pushups", "Push Ups"}},
	"Incline Push-ups":       {Canonical: "인클라인 푸시업", Alternates: []string{"Incline Push-ups (or Knee Push-ups)"}},
	"Close-Grip Bench Press": {Canonical: "클로즈 그립 벤치 프레스"},

	// Back
	"Pull-Ups":                        {Canonical: "풀업", Alternates: []string{"Pull-Ups (or Lat Pulldown)", "Weighted Pull-Ups"}},
	"Pull-Ups (or Lat Pulldown)":      {Canonical: "풀업"},
	"Lat Pulldown":                    {Canonical: "랫 풀다운", Alternates: []string{"Wide Grip Pulldown"}},
	"Barbell Row":                     {Canonical: "바벨 로우", Alternates: []string{"Bent-Over Row", "Bent Over Barbell Row"}},
	"Bent-Over Row":                   {Canonical: "바벨 로우"},
	"T-Bar Row":                       {Canonical: "T바 로우"},
	"Dumbbell Row":                    {Canonical: "덤벨 로우", Alternates: []string{"One-Arm Dumbbell Row"}},
	"Seated Cable Row":                {Canonical: "시티드 케이블 로우", Alternates: []string{"Cable Row", "Seated Cable Row (Close Grip)"}},
	"Straight Arm Pulldown":           {Canonical: "스트레이트 암 풀다운"},
	"Deadlift":                        {Canonical: "바벨 데드리프트", Alternates: []string{"Conventional Deadlift", "데드리프트"}},
	"Romanian Deadlift":               {Canonical: "루마니안 데드리프트", Alternates: []string{"RDL"}},
	"Stiff-Legged Deadlift":           {Canonical: "스티프 레그 데드리프트"},
	"Australian Rows":                 {Canonical: "인버티드 로우", Alternates: []string{"Inverted Rows"}},
	"Australian Rows (Inverted Rows)": {Canonical: "인버티드 로우"},
	"Chin-Ups":                        {Canonical: "친업"},
	"Face Pulls":                      {Canonical: "페이스 풀"},

	// Shoulders
	"Overhead Press":          {Canonical: "오버헤드 프레스", Alternates: []string{"Military Press", "Barbell Shoulder Press", "Seated Overhead Press"}},
	"Dumbbell Shoulder Press": {Canonical: "덤벨 숄더 프레스", Alternates: []string{"Seated Dumbbell Press"}},
	"Machine Shoulder Press":  {Canonical: "머신 숄더 프레스"},
	"Arnold Press":            {Canonical: "아놀드 프레스"},
	"Lateral Raise":           {Canonical: "레터럴 레이즈", Alternates: []string{"Side Lateral Raise", "Dumbbell Lateral Raise", "Lateral Raises"}},
	"Cable Rear Delt Fly":     {Canonical: "케이블 리어 델트 플라이"},
	"Dumbbell Shrug":          {Canonical: "덤벨 슈러그"},

	// Legs
	"Barbell Squat":         {Canonical: "바벨 스쿼트", Alternates: []string{"Back Squat"}},
	"Squat":                 {Canonical: "바벨 스쿼트"},
	"Squats":                {Canonical: "바벨 스쿼트"},
	"Front Squat":           {Canonical: "프론트 스쿼트", Alternates: []string{"바벨 프론트 스쿼트"}},
	"Leg Press":             {Canonical: "레그 프레스", Alternates: []string{"Machine Leg Press"}},
	"Leg Extension":         {Canonical: "레그 익스텐션"},
	"Bulgarian Split Squat": {Canonical: "불가리안 스플릿 스쿼트"},
	"Walking Lunge":         {Canonical: "워킹 런지", Alternates: []string{"런지", "Lunges"}},
	"Bodyweight Squats":     {Canonical: "바디웨이트 스쿼트", Alternates: []string{"Air Squats", "맨몸 스쿼트"}},
	"Leg Curl":              {Canonical: "레그 컬", Alternates: []string{"Lying Leg Curl", "Seated Leg Curl"}},
	"Good Mornings":         {Canonical: "굿모닝"},
	"Glute Kickback Machine": {Canonical: "글루트 킥백 머신"},
	"Calf Raise":            {Canonical: "카프 레이즈", Alternates: []string{"Standing Calf Raise"}},
	"Seated Calf Raise":     {Canonical: "시티드 카프 레이즈"},

	// Arms
	"Barbell Curl":                  {Canonical: "바벨 컬", Alternates: []string{"Barbell Bicep Curl"}},
	"Incline Dumbbell Curl":         {Canonical: "인클라인 덤벨 컬"},
	"Hammer Curl":                   {Canonical: "해머 컬"},
	"Bicep Curls (variation)":       {Canonical: "바이셉 컬"},
	"Triceps Pushdown":              {Canonical: "트라이셉 푸시다운", Alternates: []string{"Cable Triceps Pushdown"}},
	"Overhead Triceps Extension":    {Canonical: "오버헤드 트라이셉 익스텐션", Alternates: []string{"Triceps Extension (variation)"}},
	"Triceps Extension (variation)": {Canonical: "오버헤드 트라이셉 익스텐션"},
	"Skull Crusher":                 {Canonical: "바벨 라잉 트라이셉 익스텐션", Alternates: []string{"Lying Triceps Extension"}},

	// Core
	"Plank":               {Canonical: "플랭크", Alternates: []string{"플랜크"}},
	"Hanging Knee Raises": {Canonical: "행잉 레그 레이즈", Alternates: []string{"Hanging Knee Raise", "Hanging Leg Raise"}},
	"Ab Wheel Rollout":    {Canonical: "앱 롤러", Alternates: []string{"Ab Wheel", "Ab Roller"}},

	// Combined labels pick one side.
	"Bench Press or Overhead Press":                      {Canonical: "바벨 벤치 프레스"},
	"Bench Press or Overhead Press (opposite of Monday)": {Canonical: "오버헤드 프레스"},

	// Olympic lifts fall back to clean and press.
	"Power Clean":                 {Canonical: "클린 앤 프레스", Alternates: []string{"Power Clean or Power Snatch"}},
	"Power Snatch":                {Canonical: "클린 앤 프레스"},
	"Power Clean or Power Snatch": {Canonical: "클린 앤 프레스"},

	// Korean spellings used by the Korean-authored programs.
	"벤치프레스":      {Canonical: "바벨 벤치 프레스"},
	"덤벨 벤치프레스":   {Canonical: "덤벨 벤치 프레스"},
	"인클라인 벤치프레스": {Canonical: "인클라인 바벨 벤치 프레스"},
	"클로즈그립 벤치프레스": {Canonical: "클로즈 그립 벤치 프레스"},
	"데드리프트":      {Canonical: "바벨 데드리프트"},
	"스쿼트":        {Canonical: "바벨 스쿼트"},
	"백 스쿼트":      {Canonical: "바벨 스쿼트"},
	"푸쉬업":        {Canonical: "푸시업"},
	"다이아몬드 푸쉬업":  {Canonical: "다이아몬드 푸시업"},
	"브릿지":        {Canonical: "글루트 브릿지"},
}
