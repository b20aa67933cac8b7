// Package handler はhabomailang APIサーバーのHTTPハンドラーを提供する。
//
// # 概要
//
// このパッケージはGin Frameworkを使用したHTTPリクエストハンドラーを提供する。
// 各ハンドラーはserviceパッケージのビジネスロジックやstoreパッケージを呼び出し、
// HTTPレスポンスを返却する。
//
// # 主要なコンポーネント
//
//   - SentenceHandler: /api/sentence_generator（文章生成）
//   - FragmentsHandler: /api/fragments, /api/fragments/stats（断片の参照）
//   - HealthHandler: /api/health（ヘルスチェック）
//   - RequestLogger: リクエストIDの付与とアクセスログ
//
// SentenceServiceへの依存性注入によりテスタビリティを確保する。
//
// # エンドポイント一覧
//
// GET|POST /api/sentence_generator - ラーメン日記の文章生成
//
// リクエスト（クエリ・フォーム・JSONのいずれか）:
//
//	GET /api/sentence_generator?shop_name=MenYa&menu=Shoyu&price=800&noodle_level=1
//
//	{
//	    "shop_name": "MenYa",   // 店名 (必須)
//	    "menu": "Shoyu",        // メニュー (必須)
//	    "topping": "ヤサイマシ", // トッピング
//	    "price": 800,           // 価格 (必須、文字列も可)
//	    "noodle_level": 1,      // 省略時はデフォルトレベル
//	    "soup_level": 1,
//	    "pork_level": 1
//	}
//
// レスポンス:
//
//	{"sentence": "令和08年10月18日日曜日、MenYa、Shoyu 800YEN\n麺：細麺\n..."}
//
// GET /api/fragments?category=noodle&level=1 - 断片一覧
//
// GET /api/fragments/stats - カテゴリ・レベルごとの断片数
//
// GET /api/health - ヘルスチェック
//
// # エラー形式
//
//	{
//	    "error": "shop_nameは必須です",
//	    "code": "missing_parameter",
//	    "parameter": "shop_name"
//	}
//
// # HTTPステータスコード
//
//   - 200 OK: 正常完了
//   - 400 Bad Request: パラメータ不足（missing_parameter）、不正（invalid_parameter）
//   - 404 Not Found: 指定レベルの断片がない（no_fragment_for_level）
//   - 502 Bad Gateway: 外部の文章生成に失敗（generator_failure）
//   - 503 Service Unavailable: DBに接続できない（/api/health のみ）
//   - 500 Internal Server Error: DBエラーなど（internal_error）
package handler
