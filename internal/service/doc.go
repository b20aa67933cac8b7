// Package service はhabomailang APIサーバーのビジネスロジックを提供する。
//
// # 概要
//
// このパッケージはラーメン日記の文章生成を担当する。
// 店名・メニュー・トッピング・価格と、麺・スープ・ブタそれぞれのレベルを受け取り、
// レベルに応じた感想の断片を取得して1つの文章に組み立てる。
//
// # 主要なコンポーネント
//
// SentenceService インターフェースが文章生成を抽象化する。
// handlerパッケージから利用され、依存性の注入を可能にする。
//
// FragmentSource インターフェースが断片の取得元を抽象化する。
// 実装は2種類:
//   - NewStoreSource: DBのカテゴリ別テーブルから断片を引く
//   - NewGeneratorService: 外部の文章生成コマンド（textgen）を実行する
//
// NtfyService インターフェースがntfy.sh通知を抽象化する。
// NTFY_TOPIC が設定されていない場合は nil を返し、機能が無効になる。
// 外部コマンドによる生成が失敗したときに通知する。
//
// # 検証
//
//   - shop_name, menu, price は必須（前後の空白を除いて空の場合はエラー）
//   - price は全角数字・カンマ・末尾の「円」「YEN」を許容し、半角数字に正規化する
//   - 各レベルは省略時デフォルトレベル、指定時は 1..MaxLevel の整数
//
// 検証エラーは *ParamError で返し、ErrMissingParameter または ErrInvalidParameter を
// errors.Is で判定できる。
//
// # 文章の形式
//
// diary体裁:
//
//	令和08年10月18日日曜日、MenYa、Shoyu 800YEN
//	麺：細麺
//	スープ：あっさり
//	ブタ：チャーシュー
//	完飲。
//
// plain体裁はラベルと「完飲。」を付けない。
//
// # 外部コマンド
//
// 外部コマンドは呼び出しごとに一意な一時ファイルへ出力させ、1行目を断片として読む。
// 読み取り後に一時ファイルは削除される。終了コード3はそのレベルのチェーンがないことを表す。
//
// # 使用例
//
//	source := service.NewStoreSource(st, store.PolicyRandom)
//	svc := service.NewSentenceService(source, service.SentenceOptions{Style: service.StyleDiary}, logger)
//	result, err := svc.Generate(ctx, service.SentenceRequest{
//	    ShopName: "MenYa", Menu: "Shoyu", Price: "800",
//	    NoodleLevel: "1", SoupLevel: "1", PorkLevel: "1",
//	})
//	if err != nil {
//	    // エラーハンドリング
//	}
//	fmt.Println(result.Sentence)
package service
